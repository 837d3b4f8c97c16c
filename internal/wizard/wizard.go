package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"gopkg.in/yaml.v3"

	"github.com/joelklabo/asisten/internal/config"
)

// Prompter abstracts survey for testability.
type Prompter interface {
	AskSelect(label string, options []string, def string) (string, error)
	AskInput(label, def string) (string, error)
	AskConfirm(label string, def bool) (bool, error)
}

// Run executes the interactive wizard and writes a config file. Progress
// messages go to out (os.Stdout when nil). A canceled ctx stops the wizard
// before anything is written.
func Run(ctx context.Context, path string, p Prompter, out io.Writer) (string, error) {
	if p == nil {
		p = &surveyPrompter{}
	}
	if out == nil {
		out = os.Stdout
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	cfgPath, err := resolveConfigPath(path)
	if err != nil {
		return "", err
	}

	if fileExists(cfgPath) {
		overwrite, err := p.AskConfirm(fmt.Sprintf("%s exists. Overwrite?", cfgPath), false)
		if err != nil {
			return "", err
		}
		if !overwrite {
			return "", fmt.Errorf("aborted: config exists at %s", cfgPath)
		}
	}

	cfg := config.Default()

	if cfg.Server.Addr, err = p.AskInput("Listen address for the chat page", cfg.Server.Addr); err != nil {
		return "", err
	}
	if cfg.Logging.Level, err = p.AskSelect("Log level", []string{"debug", "info", "warn", "error"}, cfg.Logging.Level); err != nil {
		return "", err
	}
	if cfg.Logging.Format, err = p.AskSelect("Log format", []string{"text", "json"}, cfg.Logging.Format); err != nil {
		return "", err
	}

	enableMetrics, err := p.AskConfirm("Expose Prometheus metrics?", false)
	if err != nil {
		return "", err
	}
	if enableMetrics {
		if cfg.Metrics.Listen, err = p.AskInput("Metrics listen address", "127.0.0.1:9100"); err != nil {
			return "", err
		}
	}

	enableAudit, err := p.AskConfirm("Keep an audit log of launched apps and websites?", false)
	if err != nil {
		return "", err
	}
	if enableAudit {
		if cfg.Storage.Path, err = p.AskInput("Audit database path", defaultStatePath()); err != nil {
			return "", err
		}
		if cfg.Storage.Path == "" {
			return "", errors.New("audit database path is required when the audit log is enabled")
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	dryRun, err := p.AskConfirm("Dry-run only (preview config without writing)?", false)
	if err != nil {
		return "", err
	}

	if dryRun {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return "", fmt.Errorf("marshal config: %w", err)
		}
		fmt.Fprintf(out, "Dry run: config NOT written. Target path would be %s\n\n%s", cfgPath, data)
		return cfgPath, nil
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := writeConfig(cfgPath, cfg); err != nil {
		return "", err
	}
	fmt.Fprintf(out, "Config written to %s\n", cfgPath)

	return cfgPath, nil
}

func resolveConfigPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "asisten", "config.yaml"), nil
}

func writeConfig(path string, cfg *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("make config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "audit.db"
	}
	return filepath.Join(home, ".local", "share", "asisten", "audit.db")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// surveyPrompter is the real interactive implementation.
type surveyPrompter struct{}

func (surveyPrompter) AskSelect(label string, options []string, def string) (string, error) {
	sel := def
	prompt := &survey.Select{Message: label, Options: options, Default: def}
	if err := survey.AskOne(prompt, &sel); err != nil {
		return "", err
	}
	return sel, nil
}

func (surveyPrompter) AskInput(label, def string) (string, error) {
	ans := def
	prompt := &survey.Input{Message: label, Default: def}
	if err := survey.AskOne(prompt, &ans); err != nil {
		return "", err
	}
	return ans, nil
}

func (surveyPrompter) AskConfirm(label string, def bool) (bool, error) {
	ans := def
	prompt := &survey.Confirm{Message: label, Default: def}
	if err := survey.AskOne(prompt, &ans); err != nil {
		return false, err
	}
	return ans, nil
}

// StubPrompter is used in tests.
type StubPrompter struct {
	Selects  []string
	Inputs   []string
	Confirms []bool
}

func (s *StubPrompter) popSelect(def string) string {
	if len(s.Selects) == 0 {
		return def
	}
	v := s.Selects[0]
	s.Selects = s.Selects[1:]
	return v
}

func (s *StubPrompter) popInput(def string) string {
	if len(s.Inputs) == 0 {
		return def
	}
	v := s.Inputs[0]
	s.Inputs = s.Inputs[1:]
	return v
}

func (s *StubPrompter) popConfirm(def bool) bool {
	if len(s.Confirms) == 0 {
		return def
	}
	v := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return v
}

func (s *StubPrompter) AskSelect(label string, options []string, def string) (string, error) {
	return s.popSelect(def), nil
}
func (s *StubPrompter) AskInput(label, def string) (string, error) {
	return s.popInput(def), nil
}
func (s *StubPrompter) AskConfirm(label string, def bool) (bool, error) {
	return s.popConfirm(def), nil
}
