package app

import (
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	"fileservice/internal/config"
	"fileservice/internal/files"
	"fileservice/internal/logger"
	"fileservice/internal/observability"
	"fileservice/internal/sentryx"
	"fileservice/internal/workspace"
)

// ServiceName is reported to sentry.
const ServiceName = "fileservice"

// App holds all runtime dependencies for one CLI invocation.
type App struct {
	Config    *config.AppConfig
	Workspace *workspace.Workspace
	Service   *files.Service
	Handler   *files.Handler
	Registry  *prometheus.Registry
	Logger    *logger.Logger
	Stdout    io.Writer
	Stderr    io.Writer
}

// Options are the global command-line values plus the output streams.
type Options struct {
	ConfigPath   string
	WorkDir      string
	NoAutocreate bool
	LogLevel     string
	Stdout       io.Writer
	Stderr       io.Writer
	// Fs replaces the OS filesystem; nil means the real disk.
	Fs afero.Fs
}

// New builds a fully wired application.
func New(opts Options) (*App, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	logger.Init(logger.Config{
		Output:   opts.Stderr,
		MinLevel: logger.INFO,
		UseColor: false,
	})

	cfg, err := config.Load(config.LoadOptions{
		ConfigPath:   opts.ConfigPath,
		WorkDir:      opts.WorkDir,
		NoAutocreate: opts.NoAutocreate,
		LogLevel:     opts.LogLevel,
	})
	if err != nil {
		return nil, err
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	logger.Init(logger.Config{
		Output:   opts.Stderr,
		MinLevel: level,
		UseColor: cfg.LogColor,
	})

	log := logger.WithComponent("MAIN")
	if cfg.ConfigFileUsed != "" {
		log.Debug("Config file: %s", cfg.ConfigFileUsed)
	}

	if err := sentryx.Init(sentryx.Options{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Env,
		Service:     ServiceName,
	}); err != nil {
		log.Warn("Error reporting disabled: %v", err)
	} else if sentryx.Enabled() {
		log.Debug("Error reporting enabled (env=%s)", cfg.Env)
	}

	ws, err := workspace.Open(cfg.ResolvedWorkDir,
		workspace.WithAutocreate(cfg.Autocreate),
		workspace.WithFs(opts.Fs),
	)
	if err != nil {
		return nil, err
	}
	log.Debug("Working directory: %s", ws.Root())

	registry := prometheus.NewRegistry()
	service := files.NewService(ws, observability.NewMetrics(registry))
	service.SetStatWorkers(cfg.StatWorkers)

	return &App{
		Config:    cfg,
		Workspace: ws,
		Service:   service,
		Handler:   files.NewHandler(service, opts.Stdout),
		Registry:  registry,
		Logger:    log,
		Stdout:    opts.Stdout,
		Stderr:    opts.Stderr,
	}, nil
}
