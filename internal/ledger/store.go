package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"menusample/internal/services"
	"menusample/internal/sqlitedb"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrRunNotFound is returned when no run matches an id or prefix.
var ErrRunNotFound = errors.New("run not found")

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the ledger database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlitedb.Open(path)
	if err != nil {
		return nil, err
	}
	if err := sqlitedb.InitSchema(ctx, db, schemaSQL, schemaVersion); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path, now: time.Now}, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun inserts a new running run and returns it.
func (s *Store) StartRun(ctx context.Context, configPath, outputPath string) (*Run, error) {
	id := uuid.NewString()
	started := s.now().UTC()
	_, err := sqlitedb.Exec(ctx, s.db,
		`INSERT INTO runs (id, status, config_path, output_path, started_at)
         VALUES (?, ?, ?, ?, ?)`,
		id,
		StatusRunning,
		nullableString(configPath),
		nullableString(outputPath),
		started.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return &Run{
		ID:         id,
		Status:     StatusRunning,
		ConfigPath: configPath,
		OutputPath: outputPath,
		StartedAt:  started,
	}, nil
}

// RecordStage appends a stage count to a run.
func (s *Store) RecordStage(ctx context.Context, runID string, count StageCount) error {
	_, err := sqlitedb.Exec(ctx, s.db,
		`INSERT INTO run_stages (run_id, seq, stage, rows_before, rows_after, duration_ms)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID,
		count.Seq,
		count.Stage,
		count.RowsBefore,
		count.RowsAfter,
		count.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert stage %s: %w", count.Stage, err)
	}
	return nil
}

// FinishRun marks a run succeeded, or failed when runErr is non-nil. The
// failure kind and stage are derived from the error chain.
func (s *Store) FinishRun(ctx context.Context, runID string, rowsOut int, runErr error) error {
	status := StatusSucceeded
	var kind, stage, message any
	if runErr != nil {
		status = StatusFailed
		if errors.Is(runErr, context.Canceled) {
			status = StatusInterrupted
		}
		kind = nullableString(services.Kind(runErr))
		if name, ok := services.StageOf(runErr); ok {
			stage = name
		}
		message = runErr.Error()
	}
	res, err := sqlitedb.Exec(ctx, s.db,
		`UPDATE runs
         SET status = ?, rows_out = ?, error_kind = ?, error_stage = ?, error_message = ?, finished_at = ?
         WHERE id = ?`,
		status,
		rowsOut,
		kind,
		stage,
		message,
		s.now().UTC().Format(time.RFC3339Nano),
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// MarkInterrupted closes out runs left in the running state, typically by a
// crashed process. Callers hold the pipeline lock, so no live run is affected.
func (s *Store) MarkInterrupted(ctx context.Context) (int64, error) {
	res, err := sqlitedb.Exec(ctx, s.db,
		`UPDATE runs
         SET status = ?, error_message = ?, finished_at = ?
         WHERE status = ?`,
		StatusInterrupted,
		InterruptedReason,
		s.now().UTC().Format(time.RFC3339Nano),
		StatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("mark interrupted runs: %w", err)
	}
	return res.RowsAffected()
}

const runColumns = `id, status, config_path, output_path, rows_out, error_kind,
        error_stage, error_message, started_at, finished_at`

// ListRuns returns the most recent runs first. A non-positive limit returns
// every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(sqlitedb.EnsureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches a run by full id or unique id prefix.
func (s *Store) GetRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, ErrRunNotFound
	}
	rows, err := s.db.QueryContext(sqlitedb.EnsureContext(ctx),
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ORDER BY started_at DESC LIMIT 2`,
		idOrPrefix, stripLikeWildcards(idOrPrefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run.ID == idOrPrefix {
			return run, nil
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("run prefix %q is ambiguous", idOrPrefix)
	}
}

// Stages returns the stage counts of a run in execution order.
func (s *Store) Stages(ctx context.Context, runID string) ([]StageCount, error) {
	rows, err := s.db.QueryContext(sqlitedb.EnsureContext(ctx),
		`SELECT seq, stage, rows_before, rows_after, duration_ms
         FROM run_stages WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	var stages []StageCount
	for rows.Next() {
		var (
			count      StageCount
			durationMS int64
		)
		if err := rows.Scan(&count.Seq, &count.Stage, &count.RowsBefore, &count.RowsAfter, &durationMS); err != nil {
			return nil, err
		}
		count.Duration = time.Duration(durationMS) * time.Millisecond
		stages = append(stages, count)
	}
	return stages, rows.Err()
}

// Stats returns a count of runs grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(sqlitedb.EnsureContext(ctx), `SELECT status, COUNT(1) FROM runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("run stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Prune deletes finished runs that started before cutoff, with their stages.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := sqlitedb.Exec(ctx, s.db,
		`DELETE FROM runs WHERE status != ? AND started_at < ?`,
		StatusRunning, cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run          Run
		status       string
		configPath   sql.NullString
		outputPath   sql.NullString
		errorKind    sql.NullString
		errorStage   sql.NullString
		errorMessage sql.NullString
		startedRaw   string
		finishedRaw  sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&status,
		&configPath,
		&outputPath,
		&run.RowsOut,
		&errorKind,
		&errorStage,
		&errorMessage,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.Status = Status(status)
	run.ConfigPath = configPath.String
	run.OutputPath = outputPath.String
	run.ErrorKind = errorKind.String
	run.ErrorStage = errorStage.String
	run.ErrorMessage = errorMessage.String
	if started, err := time.Parse(time.RFC3339Nano, startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := time.Parse(time.RFC3339Nano, finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func stripLikeWildcards(value string) string {
	replacer := strings.NewReplacer(`%`, ``, `_`, ``)
	return replacer.Replace(value)
}
