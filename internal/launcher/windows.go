package launcher

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/joelklabo/asisten/internal/core"
)

func init() {
	MustRegister("windows", Platform{
		New:        func(o Options) core.Launcher { return &Windows{opts: o} },
		Calculator: "calc.exe",
		Helpers:    []string{"cmd", "rundll32"},
	})
}

// Windows launches through the shell's file association handler.
type Windows struct {
	opts Options
}

func (w *Windows) OpenURL(ctx context.Context, url string) error {
	return run(ctx, w.opts, "rundll32", "url.dll,FileProtocolHandler", url)
}

func (w *Windows) Launch(ctx context.Context, app string) error {
	if _, err := w.opts.LookPath(app); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%s: %w", app, core.ErrAppNotFound)
		}
		return err
	}
	return run(ctx, w.opts, "cmd", "/c", "start", "", app)
}
