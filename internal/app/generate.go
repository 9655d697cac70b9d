package app

import (
	"context"
	"fmt"

	"github.com/vk/flowsheet/internal/codegen"
	"github.com/vk/flowsheet/internal/ctxlog"
	"github.com/vk/flowsheet/internal/formula"
)

// Generate renders an executor skeleton for the named formula's manifest
// and stores it in the executors directory. The manifest may be a builtin
// or one loaded from the formula manifest files; the stored source is a
// compilable stub the user fills in and wires at build time.
func (a *App) Generate(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	name := appConfig.GenerateFormula

	reg, ok := a.registry.Get(name)
	if !ok {
		return &formula.NotFoundError{Formula: name}
	}

	src, err := codegen.Generate(reg.Manifest)
	if err != nil {
		return fmt.Errorf("generating executor for %q: %w", name, err)
	}

	mgr, err := codegen.NewManager(appConfig.ExecutorsDir)
	if err != nil {
		return err
	}
	if err := mgr.Save(ctx, name, src); err != nil {
		return fmt.Errorf("storing executor for %q: %w", name, err)
	}

	a.logger.Info("Executor skeleton stored.", "formula", name, "dir", appConfig.ExecutorsDir)
	fmt.Fprintf(a.outW, "Generated executor skeleton for %s in %s\n", name, appConfig.ExecutorsDir)
	return nil
}
