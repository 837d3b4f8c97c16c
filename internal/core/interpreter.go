package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joelklabo/asisten/internal/commands"
	"github.com/joelklabo/asisten/internal/metrics"
)

// Interpreter turns chat text into a reply, running launches through a Launcher.
// It holds no per-request state and is safe for concurrent use.
type Interpreter struct {
	launcher   Launcher
	logger     *slog.Logger
	now        func() time.Time
	calculator string

	auditStore AuditLogger
}

// AuditLogger records side-effecting commands.
type AuditLogger interface {
	AppendAudit(action, target, outcome string, dur time.Duration) error
}

// InterpreterOption configures an Interpreter.
type InterpreterOption func(*Interpreter)

// WithClock overrides the time source used for "tanya jam".
func WithClock(now func() time.Time) InterpreterOption {
	return func(in *Interpreter) { in.now = now }
}

// WithCalculator sets the platform-specific calculator application name.
func WithCalculator(name string) InterpreterOption {
	return func(in *Interpreter) { in.calculator = name }
}

// WithAuditLogger wires an audit sink.
func WithAuditLogger(a AuditLogger) InterpreterOption {
	return func(in *Interpreter) { in.auditStore = a }
}

// NewInterpreter constructs an Interpreter. If logger is nil, slog.Default is used.
// A nil launcher behaves like a host that cannot launch anything.
func NewInterpreter(launcher Launcher, logger *slog.Logger, opts ...InterpreterOption) *Interpreter {
	if logger == nil {
		logger = slog.Default()
	}
	if launcher == nil {
		launcher = unsupportedLauncher{}
	}
	in := &Interpreter{
		launcher:   launcher,
		logger:     logger,
		now:        time.Now,
		calculator: "calc.exe",
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Reply answers one chat message. It never fails: every outcome, including
// launch errors, is returned as text.
func (in *Interpreter) Reply(ctx context.Context, text string) string {
	cmd := commands.Parse(text)
	metrics.IncCommand(string(cmd.Intent))
	in.logger.Debug("command parsed", slog.String("intent", string(cmd.Intent)), slog.String("target", cmd.Target))

	switch cmd.Intent {
	case commands.IntentTime:
		return in.now().Format(ReplyTimeLayout)
	case commands.IntentOpen:
		switch {
		case cmd.Wants("google"):
			return in.openWebsite(ctx, GoogleURL)
		case cmd.Wants("kalkulator"):
			return in.openApp(ctx, in.calculator)
		default:
			return ReplyOpenUnknown
		}
	default:
		return ReplyNotUnderstood
	}
}

func (in *Interpreter) openWebsite(ctx context.Context, url string) string {
	start := time.Now()
	err := in.launcher.OpenURL(ctx, url)
	in.record("website", url, err, time.Since(start))
	if err != nil {
		return fmt.Sprintf(ReplyWebsiteFailed, err)
	}
	return fmt.Sprintf(ReplyWebsiteOK, url)
}

func (in *Interpreter) openApp(ctx context.Context, name string) string {
	start := time.Now()
	err := in.launcher.Launch(ctx, name)
	in.record("app", name, err, time.Since(start))
	switch {
	case err == nil:
		return fmt.Sprintf(ReplyAppOK, name)
	case errors.Is(err, ErrAppNotFound):
		return fmt.Sprintf(ReplyAppNotFound, name)
	case errors.Is(err, ErrUnsupportedPlatform):
		return ReplyUnsupported
	default:
		return fmt.Sprintf(ReplyAppFailed, err)
	}
}

func (in *Interpreter) record(kind, target string, err error, dur time.Duration) {
	status := outcome(err)
	metrics.IncLaunch(kind, status)
	log := in.logger.With(slog.String("kind", kind), slog.String("target", target))
	if err != nil {
		log.Warn("launch failed", slog.String("status", status), slog.String("err", err.Error()))
	} else {
		log.Info("launch ok", slog.Duration("ms", dur))
	}
	if in.auditStore == nil {
		return
	}
	if aerr := in.auditStore.AppendAudit(kind, target, status, dur); aerr != nil {
		in.logger.Error("audit append failed", slog.String("err", aerr.Error()))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAppNotFound):
		return "not_found"
	case errors.Is(err, ErrUnsupportedPlatform):
		return "unsupported"
	default:
		return "error"
	}
}
