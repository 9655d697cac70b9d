// Package app assembles the application: logger, configuration loading,
// formula registry, and the engine, behind a constructor the CLI drives.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/flowsheet/internal/config"
	"github.com/vk/flowsheet/internal/ctxlog"
	"github.com/vk/flowsheet/internal/engine"
	"github.com/vk/flowsheet/internal/formula"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *formula.Registry
	model    *config.Model
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var configPaths []string
	if appConfig.WorkflowPath != "" {
		configPaths = append(configPaths, appConfig.WorkflowPath)
	}
	if appConfig.FormulasPath != "" {
		configPaths = append(configPaths, appConfig.FormulasPath)
	}

	cfgModel, err := loader.Load(ctx, configPaths...)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	// Generation needs manifests only; a workflow is required to run.
	if cfgModel.Workflow == nil && appConfig.GenerateFormula == "" {
		panic(fmt.Errorf("no workflow declared under %s", appConfig.WorkflowPath))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	reg := formula.NewRegistry()
	if err := formula.RegisterBuiltins(ctx, reg); err != nil {
		panic(fmt.Errorf("failed to register builtin formulas: %w", err))
	}
	logger.Debug("Builtin formulas registered.")

	// Loaded manifests override a builtin's presentation and parameter
	// schema but never its execution logic. A manifest with no matching
	// executor has nothing to run and is skipped.
	for name, manifest := range cfgModel.Formulas {
		if err := reg.UpdateManifest(manifest); err != nil {
			logger.Warn("Skipping manifest without an executor.", "name", name, "error", err)
		}
	}
	logger.Debug("Formula manifests applied.", "count", len(cfgModel.Formulas))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		model:    cfgModel,
	}
}

// Registry returns the application's formula registry. This is primarily
// for testing.
func (a *App) Registry() *formula.Registry {
	return a.registry
}

func (a *App) engineOptions(appConfig *Config) engine.Options {
	return engine.Options{
		SampleSize:     appConfig.SampleSize,
		Workers:        appConfig.Workers,
		AggregateScope: engine.AggregateScope(appConfig.AggregateScope),
	}
}
