package ledger

import "time"

// Status represents the lifecycle of a run.
type Status string

const (
	StatusRunning     Status = "running"
	StatusSucceeded   Status = "succeeded"
	StatusFailed      Status = "failed"
	StatusInterrupted Status = "interrupted"
)

// InterruptedReason is the error message set on runs that were still marked
// running when a new run started.
const InterruptedReason = "run did not finish"

// Run is one invocation of the sampling pipeline.
type Run struct {
	ID           string
	Status       Status
	ConfigPath   string
	OutputPath   string
	RowsOut      int
	ErrorKind    string
	ErrorStage   string
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// Duration is the wall time of a finished run, or zero while it runs.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// StageCount is the row accounting of one pipeline stage.
type StageCount struct {
	Seq        int
	Stage      string
	RowsBefore int
	RowsAfter  int
	Duration   time.Duration
}

// Dropped is the number of rows the stage removed.
func (s StageCount) Dropped() int {
	return s.RowsBefore - s.RowsAfter
}
