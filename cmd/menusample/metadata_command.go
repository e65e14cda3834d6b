package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"menusample/internal/dataset"
	"menusample/internal/metadata"
)

func newMetadataCommand(ctx *commandContext) *cobra.Command {
	var input string
	var output string
	var stdout bool

	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Export state and city metadata from a sample",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source := strings.TrimSpace(input)
			if source == "" {
				source = cfg.Output.SamplePath
			}
			target := strings.TrimSpace(output)
			if target == "" {
				target = cfg.Output.MetadataPath
			}

			rows, err := dataset.ReadSample(commandContextOf(cmd), source)
			if err != nil {
				return err
			}
			m := metadata.Build(rows)
			if stdout {
				return metadata.Encode(cmd.OutOrStdout(), m)
			}
			if target == "" {
				return fmt.Errorf("no metadata path configured; set output.metadata_path or pass --output")
			}
			if err := metadata.Write(target, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s states and %s cities to %s\n",
				humanize.Comma(int64(len(m))), humanize.Comma(int64(m.Cities())), target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Sample CSV to read (defaults to output.sample_path)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination JSON file (defaults to output.metadata_path)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the metadata instead of writing a file")
	return cmd
}
