package sampling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"menusample/internal/cleaning"
	"menusample/internal/dataset"
	"menusample/internal/fileutil"
	"menusample/internal/geo"
	"menusample/internal/logging"
	"menusample/internal/ner"
	"menusample/internal/selection"
	"menusample/internal/services"
)

// Stage names, in execution order.
const (
	StageLoad            = "load_tables"
	StageCleanMenu       = "clean_menu"
	StageSync            = "sync_tables"
	StageParseAddresses  = "parse_addresses"
	StageRestrictCities  = "restrict_cities"
	StageMergeDensity    = "merge_density"
	StageFilterStates    = "filter_states"
	StageSelect          = "select_top_cities"
	StageOutliers        = "remove_outliers"
	StageExtract         = "extract_ingredients"
	StageCleanIngredient = "clean_ingredients"
	StageCostIndex       = "attach_cost_index"
	StagePriceRange      = "normalize_price_range"
	StageStateNames      = "replace_state_names"
	StageComplete        = "drop_incomplete"
	StagePersist         = "persist"
)

// Generate runs the sampling pipeline and writes the sample to the configured
// output path. The output lock is held for the whole run.
func Generate(ctx context.Context, opts Options) (result Result, err error) {
	if err := opts.validate(); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "sample", "validate options", "", err)
	}
	cfg := opts.Config
	started := time.Now()

	lock, err := fileutil.AcquireLock(cfg.LockPath())
	if err != nil {
		return Result{}, err
	}
	defer func() { _ = lock.Release() }()

	state := &runState{
		runID:  uuid.NewString(),
		logger: logging.NewComponentLogger(opts.Logger, "sampling"),
		ledger: opts.Ledger,
	}
	if opts.Ledger != nil {
		if n, markErr := opts.Ledger.MarkInterrupted(ctx); markErr != nil {
			state.logger.Warn("failed to close out stale runs", logging.Error(markErr))
		} else if n > 0 {
			state.logger.Warn("closed out runs that never finished",
				logging.String(logging.FieldEventType, "runs_interrupted"),
				logging.Int64("count", n))
		}
		run, startErr := opts.Ledger.StartRun(ctx, opts.ConfigPath, cfg.Output.SamplePath)
		if startErr != nil {
			return Result{}, fmt.Errorf("start run: %w", startErr)
		}
		state.runID = run.ID
	}

	ctx = services.WithRunID(ctx, state.runID)
	logger := logging.WithContext(ctx, state.logger)
	logger.Info("sampling run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("output", cfg.Output.SamplePath),
		logging.Bool("dry_run", opts.DryRun))

	defer func() {
		result.RunID = state.runID
		result.Stages = state.stages
		result.Duration = time.Since(started)
		if opts.Ledger != nil {
			if finishErr := opts.Ledger.FinishRun(context.WithoutCancel(ctx), state.runID, len(result.Rows), err); finishErr != nil {
				logger.Warn("failed to finish run in ledger", logging.Error(finishErr))
			}
		}
		if err != nil {
			stage, _ := services.StageOf(err)
			logger.Error("sampling run failed",
				logging.String(logging.FieldEventType, "run_failed"),
				logging.String("failed_stage", stage),
				logging.Error(err))
			return
		}
		logger.Info("sampling run completed",
			logging.String(logging.FieldEventType, "run_complete"),
			logging.Int("rows", len(result.Rows)),
			logging.Duration("run_duration", result.Duration))
	}()

	rows, err := assemble(ctx, state, opts)
	if err != nil {
		return Result{}, err
	}

	if !opts.DryRun {
		err = runStage(ctx, state, StagePersist, len(rows), func(context.Context) (int, error) {
			if err := WriteCSV(cfg.Output.SamplePath, rows); err != nil {
				return 0, services.Wrap(services.ErrTransient, StagePersist, "write sample", cfg.Output.SamplePath, err)
			}
			return len(rows), nil
		})
		if err != nil {
			return Result{}, err
		}
		result.OutputPath = cfg.Output.SamplePath
	}
	result.Rows = rows
	return result, nil
}

// assemble runs every transforming stage and returns the final rows.
func assemble(ctx context.Context, state *runState, opts Options) ([]dataset.SampledRow, error) {
	cfg := opts.Config
	var tables *dataset.Tables
	err := runStage(ctx, state, StageLoad, 0, func(ctx context.Context) (int, error) {
		var loadErr error
		tables, loadErr = dataset.LoadAll(ctx, dataset.Paths{
			Restaurants: cfg.Inputs.Restaurants,
			Menus:       cfg.Inputs.Menus,
			CostIndex:   cfg.Inputs.CostIndex,
			Density:     cfg.Inputs.Density,
			States:      cfg.Inputs.States,
		})
		if loadErr != nil {
			return 0, loadErr
		}
		return len(tables.Menus), nil
	})
	if err != nil {
		return nil, err
	}

	menu := tables.Menus
	if err := runStage(ctx, state, StageCleanMenu, len(menu), func(context.Context) (int, error) {
		menu = cleaning.CleanMenu(menu)
		return len(menu), nil
	}); err != nil {
		return nil, err
	}

	restaurants := tables.Restaurants
	if err := runStage(ctx, state, StageSync, len(restaurants)+len(menu), func(context.Context) (int, error) {
		restaurants, menu = cleaning.Sync(restaurants, menu)
		return len(restaurants) + len(menu), nil
	}); err != nil {
		return nil, err
	}

	var geoRows []dataset.GeoRestaurant
	if err := runStage(ctx, state, StageParseAddresses, len(restaurants), func(context.Context) (int, error) {
		geoRows = geo.ParseAddresses(restaurants)
		return len(geoRows), nil
	}); err != nil {
		return nil, err
	}
	if err := runStage(ctx, state, StageRestrictCities, len(geoRows), func(context.Context) (int, error) {
		geoRows = geo.RestrictToCities(geoRows, geo.DensityCities(tables.Density))
		return len(geoRows), nil
	}); err != nil {
		return nil, err
	}
	if err := runStage(ctx, state, StageMergeDensity, len(geoRows), func(context.Context) (int, error) {
		geoRows = geo.MergeDensity(geoRows, tables.Density)
		return len(geoRows), nil
	}); err != nil {
		return nil, err
	}
	if err := runStage(ctx, state, StageFilterStates, len(geoRows), func(context.Context) (int, error) {
		geoRows = geo.FilterToStates(geoRows, cfg.Sampling.TopStates)
		return len(geoRows), nil
	}); err != nil {
		return nil, err
	}
	stateNames := geo.StateNames(tables.States)

	var rows []dataset.SampledRow
	if err := runStage(ctx, state, StageSelect, len(menu), func(ctx context.Context) (int, error) {
		joined, top := selection.ComputeTopCategories(menu, geoRows, cfg.Sampling.TopCategoriesPerCity)
		cities := selection.PickTopCities(top, cfg.Sampling.FocusCategories, cfg.Sampling.TopCitiesPerState)
		logging.WithContext(ctx, state.logger).Debug("selected cities",
			logging.Int("city_count", len(cities)),
			logging.Int("category_groups", len(top)))
		rows = selection.BuildFinalMenuFrame(menu, joined, cities, cfg.Sampling.FocusCategories)
		return len(rows), nil
	}); err != nil {
		return nil, err
	}

	steps := []struct {
		name string
		fn   func(context.Context, []dataset.SampledRow) ([]dataset.SampledRow, error)
	}{
		{StageOutliers, func(_ context.Context, in []dataset.SampledRow) ([]dataset.SampledRow, error) {
			return cleaning.RemovePriceOutliersIQR(in, cfg.Sampling.IQRWhisker), nil
		}},
		{StageExtract, func(ctx context.Context, in []dataset.SampledRow) ([]dataset.SampledRow, error) {
			return ner.ExtractIngredients(ctx, in, opts.Extractor, opts.Progress)
		}},
		{StageCleanIngredient, func(_ context.Context, in []dataset.SampledRow) ([]dataset.SampledRow, error) {
			return cleaning.CleanIngredients(in), nil
		}},
		{StageCostIndex, func(_ context.Context, in []dataset.SampledRow) ([]dataset.SampledRow, error) {
			return geo.AttachCostIndex(in, tables.CostIndex), nil
		}},
		{StagePriceRange, func(_ context.Context, in []dataset.SampledRow) ([]dataset.SampledRow, error) {
			return cleaning.NormalizePriceRanges(in), nil
		}},
		{StageStateNames, func(_ context.Context, in []dataset.SampledRow) ([]dataset.SampledRow, error) {
			return geo.ReplaceStateNames(in, stateNames), nil
		}},
		{StageComplete, func(_ context.Context, in []dataset.SampledRow) ([]dataset.SampledRow, error) {
			return DropIncomplete(in), nil
		}},
	}
	for _, step := range steps {
		if err := runStage(ctx, state, step.name, len(rows), func(ctx context.Context) (int, error) {
			out, stepErr := step.fn(ctx, rows)
			if stepErr != nil {
				return 0, stepErr
			}
			rows = out
			return len(rows), nil
		}); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

// DropIncomplete removes rows with any missing persisted value.
func DropIncomplete(rows []dataset.SampledRow) []dataset.SampledRow {
	out := make([]dataset.SampledRow, 0, len(rows))
	for _, row := range rows {
		if row.Complete() {
			out = append(out, row)
		}
	}
	return out
}
