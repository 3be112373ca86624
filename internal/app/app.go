// Package app wires configuration, input, evaluation and persistence into
// the batch and server entry points.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrissnell/functionalflows/internal/controllers/restserver"
	"github.com/chrissnell/functionalflows/internal/dataio"
	"github.com/chrissnell/functionalflows/internal/storage"
	"github.com/chrissnell/functionalflows/pkg/config"
	"github.com/chrissnell/functionalflows/pkg/flows"
)

// Exit codes returned by ExitCode.
const (
	ExitOK     = 0
	ExitFile   = 1
	ExitData   = 2
	ExitConfig = 3
	ExitOther  = 1
)

// Options selects the input and output of a batch run.
type Options struct {
	InputFile string
	// OutputFile picks a sink by extension. Empty writes CSV to Stdout.
	OutputFile  string
	Sheet       string
	FlowUnits   flows.FlowUnits
	Concurrency int
	Stdout      io.Writer
}

// Result is everything a batch run produced.
type Result struct {
	RunID     uuid.UUID
	Input     *flows.Input
	Outputs   []*flows.Output
	Summaries []flows.Summary
}

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run builds every configured component, reads the input series, evaluates
// it and writes the joined table. Configuration is fully validated before
// the input is read, so a configuration error writes nothing.
func (a *App) Run(ctx context.Context, opts Options) (*Result, error) {
	runID := uuid.New()
	logger := a.logger.With("run_id", runID.String())

	cfgData, err := a.configProvider.LoadConfig()
	if err != nil {
		return nil, err
	}
	components, err := config.BuildComponents(cfgData)
	if err != nil {
		return nil, err
	}
	logger.Debugw("built components", "count", len(components), "start_of_water_year", cfgData.FirstDayOfWaterYear)

	var sink storage.Sink
	if opts.OutputFile != "" {
		if sink, err = storage.NewSink(opts.OutputFile, runID); err != nil {
			return nil, err
		}
	}

	in, err := dataio.ReadFile(opts.InputFile, dataio.Options{
		StartOfWaterYear: cfgData.FirstDayOfWaterYear,
		Sheet:            opts.Sheet,
		FlowUnits:        opts.FlowUnits,
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("read input", "path", opts.InputFile, "rows", in.Len())

	started := time.Now()
	analysis := &flows.Analysis{Input: in, Components: components, Concurrency: opts.Concurrency}
	outputs, err := analysis.Run(ctx)
	if err != nil {
		return nil, err
	}
	logger.Infow("evaluated components", "count", len(outputs), "elapsed", time.Since(started))

	result := &Result{RunID: runID, Input: in, Outputs: outputs}
	for _, o := range outputs {
		s, err := flows.Summarize(in, o)
		if err != nil {
			return nil, err
		}
		result.Summaries = append(result.Summaries, s)
		logger.Infow("component summary",
			"component", s.Component,
			"label", s.Label,
			"matched", s.Matched,
			"days", s.Days,
			"fraction", s.Fraction,
		)
	}

	table, err := storage.NewTable(in, outputs)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		stdout := opts.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		return result, storage.WriteCSV(ctx, stdout, table)
	}

	if err := sink.Write(ctx, table); err != nil {
		return nil, err
	}
	logger.Infow("wrote results", "path", opts.OutputFile)
	return result, nil
}

// Serve runs the REST server and blocks until a shutdown signal arrives or
// ctx is cancelled.
func (a *App) Serve(ctx context.Context, sc restserver.ServerConfig) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctrl, err := restserver.NewController(ctx, &wg, a.configProvider, sc, a.logger)
	if err != nil {
		return err
	}
	if err := ctrl.StartController(); err != nil {
		return err
	}

	a.logger.Info("application started successfully")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		a.logger.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		a.logger.Info("context cancelled, shutting down...")
	}

	cancel()
	wg.Wait()
	a.logger.Info("shutdown complete")
	return nil
}

// ExitCode maps an error from Run to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, flows.ErrConfig):
		return ExitConfig
	case errors.Is(err, flows.ErrData):
		return ExitData
	case errors.Is(err, flows.ErrFile):
		return ExitFile
	}
	return ExitOther
}
