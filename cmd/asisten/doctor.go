package main

import (
	"fmt"
	"io"

	"github.com/joelklabo/asisten/internal/check"
	"github.com/joelklabo/asisten/internal/config"
)

// runDoctor checks host dependencies for the current config.
// It returns an error if any required dependency is missing.
func runDoctor(cfg *config.Config, out io.Writer) error {
	results := check.Run(check.Deps(cfg), check.DefaultCheckers())
	missing := 0
	for _, res := range results {
		switch res.Status {
		case "MISSING":
			missing++
			fmt.Fprintf(out, "❌ %s (%s) — %s\n", res.Name, res.Type, res.Details)
		case "WARN":
			fmt.Fprintf(out, "⚠️  %s (%s) — %s\n", res.Name, res.Type, res.Details)
		default:
			fmt.Fprintf(out, "✅ %s (%s) — %s\n", res.Name, res.Type, res.Details)
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d required dependencies missing", missing)
	}
	return nil
}
