package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/joelklabo/asisten/internal/config"
	"github.com/joelklabo/asisten/internal/core"
	"github.com/joelklabo/asisten/internal/launcher"
	"github.com/joelklabo/asisten/internal/metrics"
	"github.com/joelklabo/asisten/internal/store"
	"github.com/joelklabo/asisten/internal/ui"
)

// App is the assembled server: one interpreter behind one HTTP front door.
type App struct {
	Interpreter *core.Interpreter
	Server      *ui.Server

	cfg    *config.Config
	logger *slog.Logger
}

// Build constructs the launcher, interpreter and web server from config.
// st may be nil, in which case no audit log is kept.
func Build(cfg *config.Config, st *store.Store, logger *slog.Logger, lopts launcher.Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if lopts.Logger == nil {
		lopts.Logger = logger.With(slog.String("component", "launcher"))
	}

	platform := cfg.Launcher.Platform
	l := launcher.Build(platform, lopts)

	opts := []core.InterpreterOption{core.WithCalculator(launcher.CalculatorName(platform))}
	var uiOpts []ui.Option
	if st != nil {
		opts = append(opts, core.WithAuditLogger(st))
		uiOpts = append(uiOpts, ui.WithAudit(st))
	}
	interp := core.NewInterpreter(l, logger.With(slog.String("component", "interpreter")), opts...)
	srv := ui.New(cfg, interp, logger, uiOpts...)

	return &App{Interpreter: interp, Server: srv, cfg: cfg, logger: logger}, nil
}

// Run serves metrics (when configured) and the web UI until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if err := metrics.Start(ctx, a.cfg.Metrics.Listen, a.logger); err != nil {
		return err
	}
	a.logger.Info("asisten starting",
		slog.String("addr", a.cfg.Server.Addr),
		slog.String("platform", a.cfg.Launcher.Platform),
		slog.Bool("audit", a.cfg.Storage.Path != ""),
	)
	err := a.Server.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// NewLogger builds the process logger from the logging section.
func NewLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
