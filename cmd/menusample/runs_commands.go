package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"menusample/internal/ledger"
)

const runIDDisplayLength = 8

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded sampling runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(commandContextOf(cmd), func(store *ledger.Store) error {
				runs, err := store.ListRuns(commandContextOf(cmd), limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, runsToJSON(runs))
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderRunsTable(runs, time.Now()))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	cmd.AddCommand(newRunsShowCommand(ctx))
	cmd.AddCommand(newRunsPruneCommand(ctx))
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a run and its per-stage row counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx := commandContextOf(cmd)
			return ctx.withLedger(runCtx, func(store *ledger.Store) error {
				run, err := store.GetRun(runCtx, args[0])
				if err != nil {
					return err
				}
				stages, err := store.Stages(runCtx, run.ID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				colorize := isTerminal(out)
				for _, line := range renderSectionHeader("Run "+run.ID, colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Status", runStatusKind(run.Status), string(run.Status), colorize))
				fmt.Fprintln(out, renderStatusLine("Started", statusInfo, run.StartedAt.Local().Format(time.DateTime), colorize))
				if run.FinishedAt != nil {
					fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, formatDuration(run.Duration()), colorize))
				}
				if run.ConfigPath != "" {
					fmt.Fprintln(out, renderStatusLine("Config", statusInfo, run.ConfigPath, colorize))
				}
				fmt.Fprintln(out, renderStatusLine("Output", statusInfo, run.OutputPath, colorize))
				fmt.Fprintln(out, renderStatusLine("Rows", statusInfo, humanize.Comma(int64(run.RowsOut)), colorize))
				if run.ErrorMessage != "" {
					message := run.ErrorMessage
					if run.ErrorStage != "" {
						message = fmt.Sprintf("%s (stage %s, %s)", message, run.ErrorStage, run.ErrorKind)
					}
					fmt.Fprintln(out, renderStatusLine("Error", statusError, message, colorize))
				}
				if len(stages) > 0 {
					fmt.Fprintln(out)
					fmt.Fprintln(out, renderStageReport(stages))
				}
				return nil
			})
		},
	}
}

func newRunsPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete finished runs older than a cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			runCtx := commandContextOf(cmd)
			return ctx.withLedger(runCtx, func(store *ledger.Store) error {
				removed, err := store.Prune(runCtx, time.Now().Add(-olderThan))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s runs\n", humanize.Comma(removed))
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Age of runs to delete")
	return cmd
}

func renderRunsTable(runs []*ledger.Run, now time.Time) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		errText := ""
		if run.ErrorStage != "" {
			errText = run.ErrorStage + ": " + run.ErrorKind
		}
		rows = append(rows, []string{
			shortRunID(run.ID),
			string(run.Status),
			humanize.RelTime(run.StartedAt, now, "ago", "from now"),
			formatDuration(run.Duration()),
			humanize.Comma(int64(run.RowsOut)),
			errText,
		})
	}
	return renderTable(
		[]string{"ID", "Status", "Started", "Duration", "Rows", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func shortRunID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) <= runIDDisplayLength {
		return id
	}
	return id[:runIDDisplayLength]
}

type runJSON struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	ConfigPath   string     `json:"config_path,omitempty"`
	OutputPath   string     `json:"output_path"`
	RowsOut      int        `json:"rows_out"`
	ErrorKind    string     `json:"error_kind,omitempty"`
	ErrorStage   string     `json:"error_stage,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

func runsToJSON(runs []*ledger.Run) []runJSON {
	out := make([]runJSON, 0, len(runs))
	for _, run := range runs {
		out = append(out, runJSON{
			ID:           run.ID,
			Status:       string(run.Status),
			ConfigPath:   run.ConfigPath,
			OutputPath:   run.OutputPath,
			RowsOut:      run.RowsOut,
			ErrorKind:    run.ErrorKind,
			ErrorStage:   run.ErrorStage,
			ErrorMessage: run.ErrorMessage,
			StartedAt:    run.StartedAt,
			FinishedAt:   run.FinishedAt,
		})
	}
	return out
}
