package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"menusample/internal/dataset"
	"menusample/internal/sampling"
	"menusample/internal/split"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var input string
	var testSize float64
	var seed int64
	var column string

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a sample into stratified train and test sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source := strings.TrimSpace(input)
			if source == "" {
				source = cfg.Output.SamplePath
			}
			opts := split.Options{
				TestSize: cfg.Split.TestSize,
				Seed:     cfg.Split.Seed,
				Column:   cfg.Split.StratifyColumn,
			}
			if cmd.Flags().Changed("test-size") {
				opts.TestSize = testSize
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = seed
			}
			if cmd.Flags().Changed("stratify") {
				opts.Column = column
			}

			rows, err := dataset.ReadSample(commandContextOf(cmd), source)
			if err != nil {
				return err
			}
			train, test, err := split.Stratified(rows, opts)
			if err != nil {
				return err
			}
			if err := sampling.WriteCSV(cfg.Split.TrainPath, train); err != nil {
				return fmt.Errorf("write train set: %w", err)
			}
			if err := sampling.WriteCSV(cfg.Split.TestPath, test); err != nil {
				return fmt.Errorf("write test set: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Train: %s rows -> %s\n", humanize.Comma(int64(len(train))), cfg.Split.TrainPath)
			fmt.Fprintf(out, "Test: %s rows -> %s\n", humanize.Comma(int64(len(test))), cfg.Split.TestPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Sample CSV to split (defaults to output.sample_path)")
	cmd.Flags().Float64Var(&testSize, "test-size", 0, "Fraction of rows placed in the test set")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Shuffle seed")
	cmd.Flags().StringVar(&column, "stratify", "", "Column whose values are kept proportional")
	return cmd
}
