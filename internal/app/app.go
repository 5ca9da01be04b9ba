package app

import (
	"io"
	"log/slog"

	"github.com/willjallen/g2automate/internal/build"
	"github.com/willjallen/g2automate/internal/vars"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	evaluator *vars.Evaluator
	invoker   build.Invoker
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. A nil invoker gets
// the real Swarm executable; tests inject a fake instead.
func NewApp(outW io.Writer, cfg *Config, invoker build.Invoker) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	if invoker == nil {
		invoker = build.NewSwarmInvoker(cfg.SwarmExePath)
	}

	return &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		evaluator: vars.NewEvaluator(nil),
		invoker:   invoker,
	}
}
