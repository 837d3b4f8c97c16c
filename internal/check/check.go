package check

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/joelklabo/asisten/internal/config"
	"github.com/joelklabo/asisten/internal/launcher"
)

// Result represents a single dependency check outcome.
type Result struct {
	Name     string
	Type     string
	Status   string // OK|MISSING|WARN
	Details  string
	Optional bool
}

// Checker defines an interface for running checks.
type Checker interface {
	Check(dep DepInput) Result
}

// DepInput describes one thing the server needs from its host.
type DepInput struct {
	Name     string
	Type     string
	Optional bool
	Hint     string
}

// Deps lists what the configured server needs: the launcher helpers for the
// selected platform, a bindable listen address and, when enabled, a writable
// audit directory.
func Deps(cfg *config.Config) []DepInput {
	var deps []DepInput
	for _, bin := range launcher.Helpers(cfg.Launcher.Platform) {
		deps = append(deps, DepInput{
			Name:     bin,
			Type:     "binary",
			Optional: true,
			Hint:     "launch commands will reply with an error",
		})
	}
	deps = append(deps, DepInput{Name: cfg.Server.Addr, Type: "listen"})
	if cfg.Metrics.Listen != "" {
		deps = append(deps, DepInput{Name: cfg.Metrics.Listen, Type: "listen"})
	}
	if cfg.Storage.Path != "" {
		deps = append(deps, DepInput{Name: filepath.Dir(cfg.Storage.Path), Type: "dirwrite"})
	}
	return deps
}

// DefaultCheckers maps dependency types to their checkers.
func DefaultCheckers() map[string]Checker {
	return map[string]Checker{
		"binary":   BinaryChecker{},
		"listen":   ListenChecker{},
		"dirwrite": DirWriteChecker{},
	}
}

// Run checks every dependency; types without a checker are skipped.
func Run(deps []DepInput, checkers map[string]Checker) []Result {
	out := make([]Result, 0, len(deps))
	for _, d := range deps {
		chk, ok := checkers[d.Type]
		if !ok {
			continue
		}
		res := chk.Check(d)
		res.Optional = d.Optional
		out = append(out, res)
	}
	return out
}

// BinaryChecker checks for a binary on PATH.
type BinaryChecker struct{}

func (BinaryChecker) Check(dep DepInput) Result {
	res := Result{Name: dep.Name, Type: dep.Type, Status: "OK"}
	path, err := exec.LookPath(dep.Name)
	if err != nil {
		res.Status = missingStatus(dep.Optional)
		res.Details = fmt.Sprintf("not found in PATH (%s)", dep.Hint)
		return res
	}
	res.Details = path
	return res
}

// ListenChecker verifies the address can be bound right now.
type ListenChecker struct{}

func (ListenChecker) Check(dep DepInput) Result {
	res := Result{Name: dep.Name, Type: dep.Type, Status: "OK", Details: "free"}
	ln, err := net.Listen("tcp", dep.Name)
	if err != nil {
		res.Status = missingStatus(dep.Optional)
		res.Details = err.Error()
		return res
	}
	_ = ln.Close()
	return res
}

// DirWriteChecker verifies a file can be created in the directory. A
// directory that does not exist yet is judged by its nearest existing
// ancestor, since the store creates the missing levels on first open.
type DirWriteChecker struct{}

func (DirWriteChecker) Check(dep DepInput) Result {
	res := Result{Name: dep.Name, Type: dep.Type, Status: "OK", Details: "writable"}
	dir, err := existingAncestor(dep.Name)
	if err != nil {
		res.Status = missingStatus(dep.Optional)
		res.Details = err.Error()
		return res
	}
	if dir != filepath.Clean(dep.Name) {
		res.Details = fmt.Sprintf("will be created under %s", dir)
	}
	f, err := os.CreateTemp(dir, ".asisten-check-*")
	if err != nil {
		res.Status = missingStatus(dep.Optional)
		res.Details = err.Error()
		return res
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return res
}

func existingAncestor(dir string) (string, error) {
	dir = filepath.Clean(dir)
	for {
		info, err := os.Stat(dir)
		switch {
		case err == nil && info.IsDir():
			return dir, nil
		case err == nil:
			return "", fmt.Errorf("%s is not a directory", dir)
		case !os.IsNotExist(err):
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no existing parent for %s", dir)
		}
		dir = parent
	}
}

func missingStatus(optional bool) string {
	if optional {
		return "WARN"
	}
	return "MISSING"
}
