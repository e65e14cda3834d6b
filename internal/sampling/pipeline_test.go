package sampling_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"menusample/internal/dataset"
	"menusample/internal/fileutil"
	"menusample/internal/ledger"
	"menusample/internal/sampling"
	"menusample/internal/services"
	"menusample/internal/testsupport"
)

func TestGenerateAppletonEndToEnd(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFocusCategories("Salads", "Wraps"))
	testsupport.WriteInputs(t, cfg, testsupport.AppletonTables())
	store := testsupport.MustOpenLedger(t, cfg)
	extractor := testsupport.NewKeywordExtractor("tomato", "basil")

	result, err := sampling.Generate(context.Background(), sampling.Options{
		Config:    cfg,
		Extractor: extractor,
		Ledger:    store,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected exactly one row, got %d: %+v", len(result.Rows), result.Rows)
	}

	row := result.Rows[0]
	if row.City != "appleton" || row.StateID != "Wisconsin" || row.Density != 1156 {
		t.Fatalf("unexpected location fields: %+v", row)
	}
	if row.CostOfLivingIndex == nil || *row.CostOfLivingIndex != 92.0 {
		t.Fatalf("expected cost of living index 92, got %v", row.CostOfLivingIndex)
	}
	if row.PriceRange != "moderate" || row.Category != "Salads" || row.Price != 9.0 {
		t.Fatalf("unexpected menu fields: %+v", row)
	}
	ingredients := append([]string(nil), row.Ingredients...)
	sort.Strings(ingredients)
	if !reflect.DeepEqual(ingredients, []string{"basil", "tomato"}) {
		t.Fatalf("unexpected ingredients %v", row.Ingredients)
	}
	if texts := extractor.Texts(); len(texts) != 1 || texts[0] != "Tomato & Basil" {
		t.Fatalf("expected one inference call on the description, got %q", texts)
	}

	persisted, err := dataset.ReadSample(context.Background(), cfg.Output.SamplePath)
	if err != nil {
		t.Fatalf("ReadSample returned error: %v", err)
	}
	if len(persisted) != 1 || persisted[0].City != "appleton" || persisted[0].Density != 1156 {
		t.Fatalf("unexpected persisted sample %+v", persisted)
	}

	run, err := store.GetRun(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("GetRun returned error: %v", err)
	}
	if run.Status != ledger.StatusSucceeded || run.RowsOut != 1 {
		t.Fatalf("unexpected run record %+v", run)
	}
	stages, err := store.Stages(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("Stages returned error: %v", err)
	}
	if len(stages) != len(result.Stages) || stages[0].Stage != sampling.StageLoad || stages[len(stages)-1].Stage != sampling.StagePersist {
		t.Fatalf("unexpected recorded stages %+v", stages)
	}
}

func TestGenerateInferenceFailureKeepsPreviousSample(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteInputs(t, cfg, testsupport.AppletonTables())
	store := testsupport.MustOpenLedger(t, cfg)

	previous := []byte("previous sample\n")
	if err := os.MkdirAll(filepath.Dir(cfg.Output.SamplePath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(cfg.Output.SamplePath, previous, 0o644); err != nil {
		t.Fatalf("write previous sample: %v", err)
	}

	extractor := testsupport.NewKeywordExtractor("tomato")
	extractor.Err = errors.New("model unavailable")
	result, err := sampling.Generate(context.Background(), sampling.Options{
		Config:    cfg,
		Extractor: extractor,
		Ledger:    store,
	})
	if !errors.Is(err, services.ErrInference) {
		t.Fatalf("expected inference failure, got %v", err)
	}
	if stage, ok := services.StageOf(err); !ok || stage != sampling.StageExtract {
		t.Fatalf("expected failure at %s, got %q", sampling.StageExtract, stage)
	}

	data, readErr := os.ReadFile(cfg.Output.SamplePath)
	if readErr != nil {
		t.Fatalf("read sample: %v", readErr)
	}
	if string(data) != string(previous) {
		t.Fatalf("expected previous sample to be untouched, got %q", data)
	}

	run, getErr := store.GetRun(context.Background(), result.RunID)
	if getErr != nil {
		t.Fatalf("GetRun returned error: %v", getErr)
	}
	if run.Status != ledger.StatusFailed || run.ErrorKind != "inference_failure" || run.ErrorStage != sampling.StageExtract {
		t.Fatalf("unexpected failed run record %+v", run)
	}
}

func TestGenerateMissingColumnIsSchemaError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteInputs(t, cfg, testsupport.AppletonTables())
	testsupport.WriteCSV(t, cfg.Inputs.Menus, []string{"restaurant_id", "category", "price"}, []string{"1", "Salads", "9.0"})

	_, err := sampling.Generate(context.Background(), sampling.Options{
		Config:    cfg,
		Extractor: testsupport.NewKeywordExtractor(),
	})
	if !errors.Is(err, services.ErrSchemaMissing) {
		t.Fatalf("expected schema error, got %v", err)
	}
	if stage, _ := services.StageOf(err); stage != sampling.StageLoad {
		t.Fatalf("expected failure at %s, got %q", sampling.StageLoad, stage)
	}
}

func TestGenerateDryRunSkipsWrite(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteInputs(t, cfg, testsupport.AppletonTables())

	result, err := sampling.Generate(context.Background(), sampling.Options{
		Config:    cfg,
		Extractor: testsupport.NewKeywordExtractor("basil"),
		DryRun:    true,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(result.Rows) != 1 || result.OutputPath != "" {
		t.Fatalf("unexpected dry run result %+v", result)
	}
	if _, err := os.Stat(cfg.Output.SamplePath); !os.IsNotExist(err) {
		t.Fatalf("expected no sample file, stat err=%v", err)
	}
}

func TestGenerateRefusesWhenLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteInputs(t, cfg, testsupport.AppletonTables())

	lock, err := fileutil.AcquireLock(cfg.LockPath())
	if err != nil {
		t.Fatalf("AcquireLock returned error: %v", err)
	}
	defer lock.Release()

	_, err = sampling.Generate(context.Background(), sampling.Options{
		Config:    cfg,
		Extractor: testsupport.NewKeywordExtractor(),
	})
	if !errors.Is(err, fileutil.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestGenerateRowsWithoutIngredientsAreDropped(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteInputs(t, cfg, testsupport.AppletonTables())

	result, err := sampling.Generate(context.Background(), sampling.Options{
		Config:    cfg,
		Extractor: testsupport.NewKeywordExtractor("anchovy"),
		DryRun:    true,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(result.Rows) != 0 {
		t.Fatalf("expected no rows, got %+v", result.Rows)
	}
}

func TestDropIncomplete(t *testing.T) {
	index := 10.0
	rows := []dataset.SampledRow{
		{PriceRange: "cheap", StateID: "Texas", City: "austin", Category: "Wraps", Ingredients: []string{"egg"}, CostOfLivingIndex: &index},
		{PriceRange: "cheap", StateID: "Texas", City: "austin", Category: "Wraps", Ingredients: []string{"egg"}},
	}
	if got := sampling.DropIncomplete(rows); len(got) != 1 || got[0].CostOfLivingIndex == nil {
		t.Fatalf("unexpected rows %+v", got)
	}
}
