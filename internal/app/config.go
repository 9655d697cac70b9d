package app

import "errors"

// Run modes.
const (
	ModePreview = "preview"
	ModeRun     = "run"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkflowPath string // hcl workflow file or directory
	SourcesDir   string // base directory source paths resolve against
	FormulasPath string // hcl formula manifests

	Mode           string
	SampleSize     int
	Workers        int
	AggregateScope string
	OutPath        string

	// GenerateFormula switches the app into skeleton generation: instead
	// of running a workflow, it renders an executor stub for the named
	// formula into ExecutorsDir.
	GenerateFormula string
	ExecutorsDir    string

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.GenerateFormula != "" {
		if cfg.ExecutorsDir == "" {
			return nil, errors.New("ExecutorsDir is required when generating an executor skeleton")
		}
		return &cfg, nil
	}
	if cfg.WorkflowPath == "" {
		return nil, errors.New("WorkflowPath is a required configuration field and cannot be empty")
	}
	if cfg.Mode != ModePreview && cfg.Mode != ModeRun {
		return nil, errors.New("Mode must be 'preview' or 'run'")
	}
	return &cfg, nil
}
