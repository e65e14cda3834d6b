package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"menusample/internal/ledger"
	"menusample/internal/ner"
	"menusample/internal/sampling"
	"menusample/internal/services"
)

func newSampleCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var noLedger bool
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Run the sampling pipeline and write the sample CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := commandContextOf(cmd)
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			svc, err := ner.NewService(runCtx, cfg, logger)
			if err != nil {
				return err
			}
			defer svc.Close()

			opts := sampling.Options{
				Config:     cfg,
				ConfigPath: ctx.configPath,
				Extractor:  svc.Extractor,
				Logger:     logger,
				DryRun:     dryRun,
			}
			if !noLedger {
				store, err := ledger.Open(runCtx, cfg.LedgerPath())
				if err != nil {
					return fmt.Errorf("open run ledger: %w", err)
				}
				defer store.Close()
				opts.Ledger = store
			}
			stderr := cmd.ErrOrStderr()
			if !noProgress && isTerminal(stderr) {
				bar := newExtractionBar(stderr)
				defer bar.Finish()
				opts.Progress = bar
			}

			result, err := sampling.Generate(runCtx, opts)
			out := cmd.OutOrStdout()
			if len(result.Stages) > 0 {
				fmt.Fprintln(out, renderStageReport(result.Stages))
			}
			if err != nil {
				if stage, ok := services.StageOf(err); ok {
					return fmt.Errorf("sample failed at stage %s: %w", stage, err)
				}
				return fmt.Errorf("sample failed: %w", err)
			}

			if svc.Cached != nil {
				stats := svc.Cached.Stats()
				fmt.Fprintf(out, "NER cache: %s hits, %s misses\n",
					humanize.Comma(stats.Hits), humanize.Comma(stats.Misses))
			}
			if dryRun {
				fmt.Fprintf(out, "Dry run: %s rows assembled in %s\n",
					humanize.Comma(int64(len(result.Rows))), formatDuration(result.Duration))
				return nil
			}
			fmt.Fprintf(out, "Wrote %s rows to %s in %s\n",
				humanize.Comma(int64(len(result.Rows))), result.OutputPath, formatDuration(result.Duration))
			if opts.Ledger != nil {
				fmt.Fprintf(out, "Run %s\n", result.RunID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Assemble the sample without writing it")
	cmd.Flags().BoolVar(&noLedger, "no-ledger", false, "Do not record the run in the run ledger")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the extraction progress bar")
	return cmd
}

func newExtractionBar(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("extracting ingredients"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("rows"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func renderStageReport(stages []ledger.StageCount) string {
	rows := make([][]string, 0, len(stages))
	for _, stage := range stages {
		rows = append(rows, []string{
			stage.Stage,
			humanize.Comma(int64(stage.RowsBefore)),
			humanize.Comma(int64(stage.RowsAfter)),
			humanize.Comma(int64(stage.Dropped())),
			formatDuration(stage.Duration),
		})
	}
	return renderTable(
		[]string{"Stage", "Rows In", "Rows Out", "Dropped", "Duration"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

func formatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(100 * time.Millisecond).String()
	}
}
