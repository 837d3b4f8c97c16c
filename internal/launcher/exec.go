package launcher

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
)

// Options carries the process hooks a launcher uses. Zero values fall back to
// the real os/exec implementations.
type Options struct {
	Start    func(name string, args ...string) error // must not wait for the process
	LookPath func(file string) (string, error)
	Stat     func(name string) (os.FileInfo, error)
	AppDir   string // macOS application bundles, /Applications by default
	Logger   *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Start == nil {
		o.Start = startDetached(o.Logger)
	}
	if o.LookPath == nil {
		o.LookPath = exec.LookPath
	}
	if o.Stat == nil {
		o.Stat = os.Stat
	}
	if o.AppDir == "" {
		o.AppDir = "/Applications"
	}
	return o
}

// startDetached starts the process and reaps it in the background.
func startDetached(log *slog.Logger) func(name string, args ...string) error {
	return func(name string, args ...string) error {
		cmd := exec.Command(name, args...)
		if err := cmd.Start(); err != nil {
			return err
		}
		go func() {
			if err := cmd.Wait(); err != nil {
				log.Debug("launched process exited", slog.String("cmd", name), slog.String("err", err.Error()))
			}
		}()
		return nil
	}
}

// run checks ctx before starting so a canceled request launches nothing.
func run(ctx context.Context, o Options, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.Logger.Debug("starting process", slog.String("cmd", name), slog.Any("args", args))
	return o.Start(name, args...)
}
