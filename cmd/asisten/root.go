package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joelklabo/asisten/internal/app"
	"github.com/joelklabo/asisten/internal/assets"
	"github.com/joelklabo/asisten/internal/config"
	"github.com/joelklabo/asisten/internal/launcher"
	"github.com/joelklabo/asisten/internal/store"
	"github.com/joelklabo/asisten/internal/wizard"
)

const envConfig = "ASISTEN_CONFIG"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	var configPath string

	serve := func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context(), configPath, cmd.OutOrStdout())
	}

	root := &cobra.Command{
		Use:           "asisten",
		Short:         "Asisten: a tiny chat assistant that tells the time and opens Google or the calculator",
		RunE:          serve,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default: $ASISTEN_CONFIG, ./config.yaml, ~/.config/asisten/config.yaml)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the chat page and command API",
		Args:  cobra.NoArgs,
		RunE:  serve,
	})
	var printExample bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively write a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if printExample {
				_, err := cmd.OutOrStdout().Write(assets.ConfigExample)
				return err
			}
			_, err := wizard.Run(cmd.Context(), configPath, nil, cmd.OutOrStdout())
			return err
		},
	}
	initCmd.Flags().BoolVar(&printExample, "example", false, "print an annotated example config instead of prompting")
	root.AddCommand(initCmd)
	root.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check that this host can run the launcher and bind the listen address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runDoctor(cfg, cmd.OutOrStdout())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "asisten %s\n", version)
		},
	})
	return root
}

func runServe(parent context.Context, configPath string, out io.Writer) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg.Logging, os.Stdout)

	var st *store.Store
	if cfg.Storage.Path != "" {
		st, err = store.New(cfg.Storage.Path, cfg.Storage.AuditMax)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
	}

	a, err := app.Build(cfg, st, logger, launcher.Options{})
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printBanner(out, cfg)
	return a.Run(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// defaultConfigPath returns the first existing config location, or "" to run
// on defaults.
func defaultConfigPath() string {
	if p := os.Getenv(envConfig); p != "" {
		return p
	}
	if fileExists("config.yaml") {
		return "config.yaml"
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "asisten", "config.yaml")
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func printBanner(out io.Writer, cfg *config.Config) {
	if !isTTY() {
		return
	}

	cyan := "\033[36m"
	mag := "\033[35m"
	gray := "\033[90m"
	reset := "\033[0m"

	audit := "off"
	if cfg.Storage.Path != "" {
		audit = cfg.Storage.Path
	}
	metricsAddr := "off"
	if cfg.Metrics.Listen != "" {
		metricsAddr = cfg.Metrics.Listen
	}

	fmt.Fprintf(out, "%s╔══════════════════════════════════════════════════════╗%s\n", mag, reset)
	fmt.Fprintf(out, "%s║%s  asisten                                             %s║%s\n", mag, reset, mag, reset)
	fmt.Fprintf(out, "%s╠══════════════════════════════════════════════════════╣%s\n", mag, reset)
	fmt.Fprintf(out, "%s║%s ui       %shttp://%s%s\n", mag, reset, cyan, cfg.Server.Addr, reset)
	fmt.Fprintf(out, "%s║%s platform %s%s%s\n", mag, reset, cyan, cfg.Launcher.Platform, reset)
	fmt.Fprintf(out, "%s║%s metrics  %s%s%s\n", mag, reset, cyan, metricsAddr, reset)
	fmt.Fprintf(out, "%s║%s audit    %s%s%s\n", mag, reset, cyan, audit, reset)
	fmt.Fprintf(out, "%s╚══════════════════════════════════════════════════════╝%s\n", mag, reset)
	fmt.Fprintf(out, "%sTip:%s launches happen on this machine, not in the visitor's browser.\n%s\n", gray, reset, reset)
}

func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
