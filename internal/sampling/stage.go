package sampling

import (
	"context"
	"log/slog"
	"time"

	"menusample/internal/ledger"
	"menusample/internal/logging"
	"menusample/internal/services"
)

type runState struct {
	runID  string
	logger *slog.Logger
	ledger *ledger.Store
	stages []ledger.StageCount
}

// runStage executes fn as the named stage. fn returns the row count after the
// stage; rowsBefore is the count it started from.
func runStage(ctx context.Context, state *runState, name string, rowsBefore int, fn func(context.Context) (int, error)) error {
	stageCtx := services.WithStage(ctx, name)
	logger := logging.WithContext(stageCtx, state.logger)
	logger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.Int(logging.FieldRowsBefore, rowsBefore))

	start := time.Now()
	rowsAfter, err := fn(stageCtx)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("stage failed",
			logging.String(logging.FieldEventType, "stage_failed"),
			logging.String("error_kind", services.Kind(err)),
			logging.Duration("stage_duration", elapsed),
			logging.Error(err))
		return services.AtStage(name, err)
	}

	count := ledger.StageCount{
		Seq:        len(state.stages) + 1,
		Stage:      name,
		RowsBefore: rowsBefore,
		RowsAfter:  rowsAfter,
		Duration:   elapsed,
	}
	state.stages = append(state.stages, count)
	if state.ledger != nil {
		if err := state.ledger.RecordStage(context.WithoutCancel(ctx), state.runID, count); err != nil {
			logger.Warn("failed to record stage in ledger",
				logging.String(logging.FieldEventType, "ledger_write_failed"),
				logging.Error(err))
		}
	}
	logger.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Int(logging.FieldRowsBefore, rowsBefore),
		logging.Int(logging.FieldRowsAfter, rowsAfter),
		logging.Int("rows_dropped", count.Dropped()),
		logging.Duration("stage_duration", elapsed))
	return nil
}
