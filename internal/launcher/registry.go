// Package launcher opens URLs and starts applications on the server host.
// Each supported platform registers itself; anything else falls back to a
// launcher that can open URLs with xdg-open but cannot start applications.
package launcher

import (
	"fmt"
	"sort"
	"sync"

	"github.com/joelklabo/asisten/internal/core"
)

// Constructor builds a Launcher for one platform.
type Constructor func(opts Options) core.Launcher

// Platform describes a registered host platform.
type Platform struct {
	New        Constructor
	Calculator string   // calculator application name on this platform
	Helpers    []string // binaries the launcher shells out to
}

// Fallback is the platform name used for unregistered hosts.
const Fallback = "generic"

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Platform)
)

func Register(name string, p Platform) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		return fmt.Errorf("platform %s already registered", name)
	}
	if p.New == nil {
		return fmt.Errorf("platform %s has no constructor", name)
	}
	registry[name] = p
	return nil
}

func MustRegister(name string, p Platform) {
	if err := Register(name, p); err != nil {
		panic(err)
	}
}

// Lookup returns the registration for name, or the fallback platform.
func Lookup(name string) Platform {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if p, ok := registry[name]; ok {
		return p
	}
	return registry[Fallback]
}

// Build constructs the launcher for the named platform (usually runtime.GOOS).
func Build(name string, opts Options) core.Launcher {
	return Lookup(name).New(opts.withDefaults())
}

// CalculatorName returns the calculator application for the named platform.
func CalculatorName(name string) string {
	return Lookup(name).Calculator
}

// Helpers returns the binaries the named platform's launcher needs on PATH.
func Helpers(name string) []string {
	return append([]string(nil), Lookup(name).Helpers...)
}

func Platforms() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
