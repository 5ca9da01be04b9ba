package app

import (
	"errors"

	"github.com/willjallen/g2automate/internal/vars"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	TerrainPath string // source .terrain file
	OutputPath  string // directory receiving mutated files and build output
	NumRuns     int

	// IncrementPath writes each run into its own zero-padded subdirectory
	// of OutputPath instead of overwriting a single file.
	IncrementPath bool

	SwarmExePath string
	Assignments  []*vars.Assignment

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.TerrainPath == "" {
		return nil, errors.New("TerrainPath is a required configuration field and cannot be empty")
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("OutputPath is a required configuration field and cannot be empty")
	}
	if cfg.NumRuns < 1 {
		return nil, errors.New("NumRuns must be a positive integer")
	}
	return &cfg, nil
}
