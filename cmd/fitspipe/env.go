package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nvandessel/fits-pipeline/internal/config"
	"github.com/nvandessel/fits-pipeline/internal/logging"
	"github.com/nvandessel/fits-pipeline/internal/metrics"
	"github.com/nvandessel/fits-pipeline/internal/pathutil"
	"github.com/nvandessel/fits-pipeline/internal/pipeline"
	"github.com/spf13/cobra"
)

// loadConfig resolves the effective configuration from --root, --config,
// the environment and --log-level, and validates it.
func loadConfig(cmd *cobra.Command) (*config.PipelineConfig, error) {
	root, _ := cmd.Flags().GetString("root")
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(root, path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// stageEnv carries everything one stage run needs beyond its own flags.
type stageEnv struct {
	stage      string
	cfg        *config.PipelineConfig
	dataDir    string
	reportsDir string
	runID      string
	logger     *slog.Logger
	events     *logging.EventLogger
	metrics    *metrics.StageCollector
}

// newStageEnv loads configuration and opens the logging and metrics sinks
// for stage. Callers must call close when the stage finishes.
func newStageEnv(cmd *cobra.Command, stage string) (*stageEnv, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	root, _ := cmd.Flags().GetString("root")
	dataDir, err := pathutil.ResolveDir(root, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data_dir: %w", err)
	}
	reportsDir, err := pathutil.ResolveDir(root, cfg.ReportsDir)
	if err != nil {
		return nil, fmt.Errorf("reports_dir: %w", err)
	}

	collector, err := metrics.NewStageCollector(stage)
	if err != nil {
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	runID := logging.NewRunID()
	logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()).With("stage", stage, "run_id", runID)

	return &stageEnv{
		stage:      stage,
		cfg:        cfg,
		dataDir:    dataDir,
		reportsDir: reportsDir,
		runID:      runID,
		logger:     logger,
		events:     logging.NewEventLogger(reportsDir, cfg.Logging.Level, stage, runID),
		metrics:    collector,
	}, nil
}

// options builds the shared stage options, writing progress to the
// command's output stream.
func (e *stageEnv) options(cmd *cobra.Command) pipeline.Options {
	return pipeline.Options{
		DataDir:    e.dataDir,
		ReportsDir: e.reportsDir,
		Out:        cmd.OutOrStdout(),
		Logger:     e.logger,
		Events:     e.events,
		Metrics:    e.metrics,
		Now:        time.Now,
	}
}

// close flushes metrics and closes the event log. A metrics write failure
// is logged, not returned, so it never turns a finished stage into a failure.
func (e *stageEnv) close() {
	if err := e.metrics.WriteTextfile(e.cfg.Metrics.TextfileDir); err != nil {
		e.logger.Warn("writing metrics textfile failed", "error", err)
	}
	e.events.Close()
}

// isNotExist reports whether err means a file is missing.
func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
