package launcher

import (
	"context"

	"github.com/joelklabo/asisten/internal/core"
)

func init() {
	MustRegister(Fallback, Platform{
		New:        func(o Options) core.Launcher { return &Generic{opts: o} },
		Calculator: "calc.exe",
		Helpers:    []string{"xdg-open"},
	})
}

// Generic serves every host without application support.
type Generic struct {
	opts Options
}

func (g *Generic) OpenURL(ctx context.Context, url string) error {
	return run(ctx, g.opts, "xdg-open", url)
}

func (g *Generic) Launch(context.Context, string) error {
	return core.ErrUnsupportedPlatform
}
