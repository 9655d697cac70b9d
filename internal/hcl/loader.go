// Package hcl implements the config.Loader interface over HCL files. It is
// the only package that knows the on-disk syntax; everything downstream
// works from the agnostic config model.
package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/flowsheet/internal/config"
	"github.com/vk/flowsheet/internal/ctxlog"
	"github.com/vk/flowsheet/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file reachable from the given paths and merges the
// discovered blocks into one model. Workflow and formula blocks may be
// split across files however the user likes, but only one workflow may be
// declared in total.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := &config.Model{
		Formulas: make(map[string]*config.FormulaManifest),
	}

	files, err := findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.FileConfig
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, wf := range root.Workflows {
			if model.Workflow != nil {
				return nil, fmt.Errorf("file %s: workflow %q: a workflow is already declared (%q)", file, wf.Name, model.Workflow.Name)
			}
			translated, err := translateWorkflow(wf)
			if err != nil {
				return nil, fmt.Errorf("file %s: %w", file, err)
			}
			model.Workflow = translated
		}
		for _, f := range root.Formulas {
			manifest, err := translateFormula(f)
			if err != nil {
				return nil, fmt.Errorf("file %s: %w", file, err)
			}
			model.Formulas[manifest.Name] = manifest
		}
	}

	steps := 0
	if model.Workflow != nil {
		steps = len(model.Workflow.Steps)
	}
	logger.Debug("HCL loading complete.", "steps", steps, "formulas", len(model.Formulas))
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found. Missing paths are skipped, not errors.
func findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			err := filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && filepath.Ext(p) == ".hcl" {
					add(p)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		}
	}
	return allFiles, nil
}
