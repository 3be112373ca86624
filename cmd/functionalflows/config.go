package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chrissnell/functionalflows/internal/app"
	"github.com/chrissnell/functionalflows/pkg/config"
	"github.com/chrissnell/functionalflows/pkg/flows"
)

// configPath resolves a configuration flag to an absolute path.
func configPath(cfgFile string) (string, error) {
	filename, err := filepath.Abs(cfgFile)
	if err != nil {
		return "", fmt.Errorf("%w: resolving %s: %v", flows.ErrFile, cfgFile, err)
	}
	return filename, nil
}

func newProvider(cfgFile string) (config.ConfigProvider, error) {
	filename, err := configPath(cfgFile)
	if err != nil {
		return nil, err
	}
	return config.NewProvider(filename)
}

func loadConfig(cfgFile string) (*config.ConfigData, error) {
	provider, err := newProvider(cfgFile)
	if err != nil {
		return nil, err
	}
	return provider.LoadConfig()
}

func newValidateCmd(exitCode *int) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a component configuration and list its components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgFile)
			if err == nil {
				_, err = config.BuildComponents(cfg)
			}
			if err != nil {
				*exitCode = app.ExitCode(err)
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "first_day_of_water_year\t%d\n\n", cfg.FirstDayOfWaterYear)
			fmt.Fprintln(w, "COMPONENT\tCHARACTERISTICS\tPATTERN\tLABEL")
			for _, cd := range cfg.Components {
				label := "success"
				if !cd.SuccessPattern {
					label = "failure"
				}
				pattern := make([]string, len(cd.ScoringPattern))
				for i, e := range cd.ScoringPattern {
					pattern[i] = fmt.Sprint(e)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cd.Name, strings.Join(cd.Characteristics, ","), strings.Join(pattern, ","), label)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "Path to the .yaml or .toml configuration")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newConvertConfigCmd(exitCode *int) *cobra.Command {
	var from, to string
	var force bool

	cmd := &cobra.Command{
		Use:   "convert-config",
		Short: "Convert a component configuration between YAML and TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configPath(to)
			if err != nil {
				*exitCode = app.ExitCode(err)
				return err
			}
			if _, err := os.Stat(target); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", target)
			}

			cfg, err := loadConfig(from)
			if err == nil {
				// refuse to write a configuration that would not load
				_, err = config.BuildComponents(cfg)
			}
			if err != nil {
				*exitCode = app.ExitCode(err)
				return err
			}

			if err := config.WriteFile(target, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "converted %d components from %s to %s\n", len(cfg.Components), from, target)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Source configuration (.yaml, .yml or .toml)")
	cmd.Flags().StringVar(&to, "to", "", "Target configuration (.yaml, .yml or .toml)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing target")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
