package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"menusample/internal/ledger"
	"menusample/internal/services"
	"menusample/internal/testsupport"
)

func TestRunLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	run, err := store.StartRun(ctx, "/etc/menusample.toml", cfg.Output.SamplePath)
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	if run.ID == "" || run.Status != ledger.StatusRunning {
		t.Fatalf("unexpected run %+v", run)
	}

	for i, name := range []string{"load_tables", "clean_menu"} {
		count := ledger.StageCount{Seq: i + 1, Stage: name, RowsBefore: 10, RowsAfter: 8 - i, Duration: 1500 * time.Millisecond}
		if err := store.RecordStage(ctx, run.ID, count); err != nil {
			t.Fatalf("RecordStage failed: %v", err)
		}
	}
	if err := store.FinishRun(ctx, run.ID, 7, nil); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	fetched, err := store.GetRun(ctx, run.ID[:8])
	if err != nil {
		t.Fatalf("GetRun by prefix failed: %v", err)
	}
	if fetched.Status != ledger.StatusSucceeded || fetched.RowsOut != 7 || fetched.FinishedAt == nil {
		t.Fatalf("unexpected finished run %+v", fetched)
	}
	if fetched.ConfigPath != "/etc/menusample.toml" {
		t.Fatalf("unexpected config path %q", fetched.ConfigPath)
	}

	stages, err := store.Stages(ctx, run.ID)
	if err != nil {
		t.Fatalf("Stages failed: %v", err)
	}
	if len(stages) != 2 || stages[1].Stage != "clean_menu" || stages[1].Dropped() != 3 || stages[0].Duration != 1500*time.Millisecond {
		t.Fatalf("unexpected stages %+v", stages)
	}
}

func TestFinishRunRecordsFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	run, err := store.StartRun(ctx, "", "")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	cause := services.AtStage("extract_ingredients",
		services.Wrap(services.ErrInference, "ner", "extract", "row 0", errors.New("offline")))
	if err := store.FinishRun(ctx, run.ID, 0, cause); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	fetched, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if fetched.Status != ledger.StatusFailed || fetched.ErrorKind != "inference_failure" || fetched.ErrorStage != "extract_ingredients" {
		t.Fatalf("unexpected failed run %+v", fetched)
	}

	cancelled, err := store.StartRun(ctx, "", "")
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	if err := store.FinishRun(ctx, cancelled.ID, 0, fmt.Errorf("load: %w", context.Canceled)); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	if fetched, _ := store.GetRun(ctx, cancelled.ID); fetched.Status != ledger.StatusInterrupted {
		t.Fatalf("expected interrupted status, got %+v", fetched)
	}
}

func TestFinishRunUnknownID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	if err := store.FinishRun(context.Background(), "missing", 0, nil); !errors.Is(err, ledger.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := store.GetRun(context.Background(), "missing"); !errors.Is(err, ledger.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestMarkInterruptedAndStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	done, _ := store.StartRun(ctx, "", "")
	if err := store.FinishRun(ctx, done.ID, 3, nil); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	if _, err := store.StartRun(ctx, "", ""); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	n, err := store.MarkInterrupted(ctx)
	if err != nil {
		t.Fatalf("MarkInterrupted failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 interrupted run, got %d", n)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[ledger.StatusSucceeded] != 1 || stats[ledger.StatusInterrupted] != 1 || stats[ledger.StatusRunning] != 0 {
		t.Fatalf("unexpected stats %v", stats)
	}

	runs, err := store.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected limit to apply, got %d runs", len(runs))
	}

	removed, err := store.Prune(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected both finished runs pruned, got %d", removed)
	}
}
