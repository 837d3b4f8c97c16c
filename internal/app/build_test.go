package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joelklabo/asisten/internal/config"
	"github.com/joelklabo/asisten/internal/core"
	"github.com/joelklabo/asisten/internal/launcher"
	"github.com/joelklabo/asisten/internal/store"
)

func fakeLauncher(started *[]string) launcher.Options {
	return launcher.Options{
		Start: func(name string, args ...string) error {
			*started = append(*started, name+" "+strings.Join(args, " "))
			return nil
		},
		LookPath: func(file string) (string, error) { return file, nil },
	}
}

func TestBuildUsesPlatformCalculator(t *testing.T) {
	cfg := config.Default()
	cfg.Launcher.Platform = "windows"
	var started []string

	a, err := Build(cfg, nil, nil, fakeLauncher(&started))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got := a.Interpreter.Reply(context.Background(), "buka kalkulator")
	if got != "Berhasil membuka aplikasi calc.exe di server." {
		t.Fatalf("unexpected reply %q", got)
	}
	if len(started) != 1 || started[0] != "cmd /c start  calc.exe" {
		t.Fatalf("unexpected launches %v", started)
	}
}

func TestBuildWiresAuditStore(t *testing.T) {
	cfg := config.Default()
	cfg.Launcher.Platform = "linux"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "audit.db")
	st, err := store.New(cfg.Storage.Path, cfg.Storage.AuditMax)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})

	var started []string
	a, err := Build(cfg, st, nil, fakeLauncher(&started))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := a.Interpreter.Reply(context.Background(), "buka kalkulator"); got != core.ReplyUnsupported {
		t.Fatalf("unexpected reply %q", got)
	}
	entries, err := st.Audit(0)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(entries) != 1 || entries[0].Outcome != "unsupported" {
		t.Fatalf("expected unsupported audit entry, got %#v", entries)
	}
}

func TestBuildNilConfig(t *testing.T) {
	if _, err := Build(nil, nil, nil, launcher.Options{}); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestRunServesUntilCanceled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	cfg := config.Default()
	cfg.Server.Addr = addr
	var started []string
	a, err := Build(cfg, nil, nil, fakeLauncher(&started))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(ctx) }()

	var resp *http.Response
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err = http.Post("http://"+addr+"/process", "application/json", strings.NewReader(`{"command":"halo"}`))
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	var body core.Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	_ = resp.Body.Close()
	if body.Response != core.ReplyNotUnderstood {
		t.Fatalf("unexpected reply %q", body.Response)
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("run err: %v", err)
	}
}

func TestNewLoggerLevelsAndFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	log.Info("hidden")
	log.Warn("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Fatalf("expected json output, got %s", out)
	}

	buf.Reset()
	NewLogger(config.LoggingConfig{Level: "debug", Format: "text"}, &buf).Debug("dbg")
	if !strings.Contains(buf.String(), "msg=dbg") {
		t.Fatalf("expected text debug output, got %s", buf.String())
	}
}
