package launcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joelklabo/asisten/internal/core"
)

func init() {
	MustRegister("darwin", Platform{
		New:        func(o Options) core.Launcher { return &Darwin{opts: o} },
		Calculator: "Calculator",
		Helpers:    []string{"open"},
	})
}

// Darwin launches application bundles with open(1).
type Darwin struct {
	opts Options
}

func (d *Darwin) OpenURL(ctx context.Context, url string) error {
	return run(ctx, d.opts, "open", url)
}

func (d *Darwin) Launch(ctx context.Context, app string) error {
	bundle := filepath.Join(d.opts.AppDir, app+".app")
	if _, err := d.opts.Stat(bundle); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", bundle, core.ErrAppNotFound)
		}
		return err
	}
	return run(ctx, d.opts, "open", bundle)
}
