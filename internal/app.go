package internal

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/mcpsetup/internal/credentials"
	"github.com/starford/mcpsetup/internal/history"
	"github.com/starford/mcpsetup/internal/hosts"
	"github.com/starford/mcpsetup/internal/registrar"
	"github.com/starford/mcpsetup/internal/setupservice"
	"github.com/starford/mcpsetup/internal/status"
	"github.com/starford/mcpsetup/internal/storage"
	"github.com/starford/mcpsetup/internal/validate"
)

// App is the wired setup engine shared by every entry point.
type App struct {
	Config  *Config
	Logger  *slog.Logger
	Service *setupservice.Service
	Files   storage.Provider

	version string
	journal *history.Journal
}

// NewLogger returns the JSON logger used across the application.
func NewLogger(level slog.Level, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Build wires the setup engine from the given options. The caller must Close
// the returned App.
func Build(opts ...Option) (*App, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	out := app.logOut
	if out == nil {
		out = os.Stderr
	}
	logger := NewLogger(cfg.App.LogLevel, out)

	locator := app.locator
	if locator == nil {
		locator = hosts.NewLocator()
	}

	credsPath, err := cfg.Credentials.ResolvePath()
	if err != nil {
		return nil, fmt.Errorf("resolve credentials path: %w", err)
	}

	files := storage.NewFS()
	creds := credentials.NewStore(credsPath, files)
	reg := registrar.New(cfg.Server.Name, registrar.NewBinaryResolver(cfg.Server.Path, cfg.Server.Binary), files, logger)

	deps := setupservice.Deps{
		Credentials: creds,
		Locator:     locator,
		Registrar:   reg,
		Status:      status.NewAggregator(locator, reg, creds, files),
		Validator:   validate.NewClient(cfg.Validation.BaseURL, cfg.Validation.Timeout),
		Logger:      logger,
	}

	a := &App{Config: cfg, Logger: logger, Files: files, version: app.version}

	// The journal is optional; setup keeps working without it.
	historyPath, err := cfg.History.ResolvePath(cfg.Credentials.AppDir)
	if err == nil {
		a.journal, err = history.Open(historyPath)
	}
	if err != nil {
		logger.Warn("install journal unavailable", slog.String("error", err.Error()))
	} else {
		deps.Journal = a.journal
	}

	a.Service = setupservice.New(deps)

	logger.Debug("setup engine ready",
		slog.String("server_name", cfg.Server.Name),
		slog.String("credentials_path", credsPath),
		slog.String("history_path", historyPath))

	return a, nil
}

// Version returns the version set by WithVersion, or "dev".
func (a *App) Version() string {
	if a.version == "" {
		return "dev"
	}
	return a.version
}

// Close releases the install journal.
func (a *App) Close() error {
	if a.journal == nil {
		return nil
	}
	return a.journal.Close()
}
