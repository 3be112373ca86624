// Command functionalflows classifies a daily streamflow series against the
// functional flow components defined in a configuration file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chrissnell/functionalflows/internal/app"
	"github.com/chrissnell/functionalflows/internal/log"
	"github.com/chrissnell/functionalflows/pkg/flows"
)

const version = "0.1.0"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	var debug, showVersion bool
	exitCode := app.ExitOK

	rootCmd := &cobra.Command{
		Use:           "functionalflows",
		Short:         "Classify daily streamflow against functional flow components",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return log.Init(debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "functionalflows v%s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)
				return nil
			}
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Turn on debugging output")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show application version and exit")

	rootCmd.AddCommand(
		newRunCmd(&exitCode),
		newValidateCmd(&exitCode),
		newConvertConfigCmd(&exitCode),
	)

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, err)
		if exitCode == app.ExitOK {
			exitCode = app.ExitOther
		}
	}
	log.Sync()
	return exitCode
}

func newRunCmd(exitCode *int) *cobra.Command {
	var (
		cfgFile     string
		opts        app.Options
		flowUnits   string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate a flow series against every configured component",
		Long: `Evaluate a flow series against every configured component.

The configuration may be YAML (.yaml, .yml) or TOML (.toml). The series may
be CSV (.csv) or an Excel workbook (.xlsx) with "date" and "flow" columns.
Results are written to the --outputs file, chosen by extension (.csv, .xlsx,
.json, .msgpack, .db), or to stdout as CSV.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := newProvider(cfgFile)
			if err != nil {
				*exitCode = app.ExitCode(err)
				return err
			}

			opts.FlowUnits = flows.FlowUnits(flowUnits)
			opts.Concurrency = concurrency
			opts.Stdout = cmd.OutOrStdout()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application := app.New(provider, log.GetSugaredLogger())
			if _, err := application.Run(ctx, opts); err != nil {
				*exitCode = app.ExitCode(err)
				log.Errorw("run failed", "error", err, "exit_code", *exitCode)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "Path to the .yaml or .toml file containing component definitions")
	cmd.Flags().StringVarP(&opts.InputFile, "inputs", "i", "", `Path to the .csv or .xlsx series with "date" and "flow" columns`)
	cmd.Flags().StringVarP(&opts.OutputFile, "outputs", "o", "", "Output path (.csv, .xlsx, .json, .msgpack, .db); stdout CSV if empty")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "Worksheet to read from an .xlsx series (default first sheet)")
	cmd.Flags().StringVar(&flowUnits, "flow-units", string(flows.CubicMetersPerSecond), "Units of the input flows: cms or lpd")
	cmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "Components evaluated in parallel (1 for sequential)")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("inputs")

	return cmd
}
