package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"menusample/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Point [inputs] at your CSV tables and set ner.api_token (or export HF_TOKEN) before sampling.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file and report missing inputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			colorize := isTerminal(out)

			for _, line := range renderSectionHeader("Configuration", colorize) {
				fmt.Fprintln(out, line)
			}
			if ctx.configPath != "" {
				fmt.Fprintln(out, renderStatusLine("Config path", statusInfo, ctx.configPath, colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Config path", statusWarn, "no config file found; defaults were used", colorize))
			}
			fmt.Fprintln(out, renderStatusLine("NER model", statusInfo, cfg.NER.Model, colorize))
			fmt.Fprintln(out, renderStatusLine("NER cache", statusInfo, cfg.NER.Cache, colorize))
			if strings.TrimSpace(cfg.NER.APIToken) == "" {
				fmt.Fprintln(out, renderStatusLine("NER token", statusWarn, "not set; anonymous requests are rate limited", colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("NER token", statusOK, "set", colorize))
			}

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Inputs", colorize) {
				fmt.Fprintln(out, line)
			}
			missing := 0
			for _, input := range inputFiles(cfg) {
				kind, message := fileStatus(input.path)
				if kind != statusOK {
					missing++
				}
				fmt.Fprintln(out, renderStatusLine(input.label, kind, message, colorize))
			}

			fmt.Fprintln(out)
			if missing > 0 {
				fmt.Fprintf(out, "Configuration valid; %d input file(s) missing\n", missing)
				return nil
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

type inputFile struct {
	label string
	path  string
}

func inputFiles(cfg *config.Config) []inputFile {
	return []inputFile{
		{"Restaurants", cfg.Inputs.Restaurants},
		{"Menus", cfg.Inputs.Menus},
		{"Cost index", cfg.Inputs.CostIndex},
		{"Density", cfg.Inputs.Density},
		{"States", cfg.Inputs.States},
	}
}

func fileStatus(path string) (statusKind, string) {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return statusWarn, "missing " + path
	case err != nil:
		return statusError, err.Error()
	case info.IsDir():
		return statusError, filepath.Clean(path) + " is a directory"
	default:
		return statusOK, path
	}
}
