package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"menusample/internal/config"
	"menusample/internal/dwh"
)

func newFlattenCommand() *cobra.Command {
	var outDir string
	var compress bool

	cmd := &cobra.Command{
		Use:         "flatten <documents.jsonl>",
		Short:       "Flatten crawled restaurant documents into restaurant and menu CSVs",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}
			dir, err := config.ExpandPath(outDir)
			if err != nil {
				return fmt.Errorf("resolve output directory: %w", err)
			}
			summary, err := dwh.Export(commandContextOf(cmd), dwh.ExportOptions{
				Input:    input,
				OutDir:   dir,
				Compress: compress,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Read %s documents\n", humanize.Comma(int64(summary.Documents)))
			fmt.Fprintf(out, "Restaurants: %s rows -> %s\n", humanize.Comma(int64(summary.Restaurants)), summary.RestaurantPath)
			if summary.MenuPath != "" {
				fmt.Fprintf(out, "Menu items: %s rows -> %s\n", humanize.Comma(int64(summary.MenuItems)), summary.MenuPath)
			} else {
				fmt.Fprintln(out, "No menu items found")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "data", "Directory for the generated CSV files")
	cmd.Flags().BoolVar(&compress, "gzip", false, "Gzip the generated CSV files")
	return cmd
}
