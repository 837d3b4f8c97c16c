package check

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/joelklabo/asisten/internal/config"
)

func TestBinaryChecker(t *testing.T) {
	c := BinaryChecker{}
	res := c.Check(DepInput{Name: "asisten-definitely-missing", Type: "binary", Optional: true, Hint: "x"})
	if res.Status != "WARN" {
		t.Fatalf("expected WARN for optional missing binary, got %s", res.Status)
	}
	res = c.Check(DepInput{Name: "asisten-definitely-missing", Type: "binary"})
	if res.Status != "MISSING" {
		t.Fatalf("expected MISSING for required missing binary, got %s", res.Status)
	}

	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("executable: %v", err)
	}
	res = c.Check(DepInput{Name: exe, Type: "binary"})
	if res.Status != "OK" || res.Details != exe {
		t.Fatalf("expected OK with resolved path, got %s (%s)", res.Status, res.Details)
	}
}

func TestListenChecker(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()

	c := ListenChecker{}
	res := c.Check(DepInput{Name: addr, Type: "listen"})
	if res.Status != "MISSING" {
		t.Fatalf("expected MISSING for busy port, got %s", res.Status)
	}
	_ = ln.Close()

	res = c.Check(DepInput{Name: addr, Type: "listen"})
	if res.Status != "OK" {
		t.Fatalf("expected OK for free port, got %s (%s)", res.Status, res.Details)
	}
}

func TestDirWriteChecker(t *testing.T) {
	td := t.TempDir()
	c := DirWriteChecker{}
	res := c.Check(DepInput{Name: td, Type: "dirwrite"})
	if res.Status != "OK" {
		t.Fatalf("expected OK for writable temp dir, got %s", res.Status)
	}

	file := filepath.Join(td, "plain")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	res = c.Check(DepInput{Name: filepath.Join(file, "sub"), Type: "dirwrite"})
	if res.Status != "MISSING" {
		t.Fatalf("expected MISSING when a parent is a file, got %s (%s)", res.Status, res.Details)
	}
}

func TestDirWriteCheckerNotYetCreated(t *testing.T) {
	td := t.TempDir()
	nested := filepath.Join(td, "share", "asisten")
	res := DirWriteChecker{}.Check(DepInput{Name: nested, Type: "dirwrite"})
	if res.Status != "OK" {
		t.Fatalf("expected OK for missing dir under writable parent, got %s (%s)", res.Status, res.Details)
	}
	if _, err := os.Stat(nested); !os.IsNotExist(err) {
		t.Fatalf("check must not create %s", nested)
	}
}

func TestRunAuditPathOnFreshHost(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "share", "asisten", "audit.db")

	for _, res := range Run(Deps(cfg), DefaultCheckers()) {
		if res.Type == "dirwrite" && res.Status != "OK" {
			t.Fatalf("audit dir should pass before first start, got %s (%s)", res.Status, res.Details)
		}
	}
}

func TestDepsFollowConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Launcher.Platform = "windows"
	cfg.Storage.Path = filepath.Join(t.TempDir(), "audit.db")
	cfg.Metrics.Listen = "127.0.0.1:0"

	deps := Deps(cfg)
	var types []string
	for _, d := range deps {
		types = append(types, d.Type+":"+d.Name)
	}
	want := []string{
		"binary:cmd",
		"binary:rundll32",
		"listen:" + cfg.Server.Addr,
		"listen:127.0.0.1:0",
		"dirwrite:" + filepath.Dir(cfg.Storage.Path),
	}
	if len(types) != len(want) {
		t.Fatalf("expected %v got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("dep %d: expected %s got %s", i, want[i], types[i])
		}
	}
}

func TestRunSkipsUnknownTypes(t *testing.T) {
	deps := []DepInput{
		{Name: t.TempDir(), Type: "dirwrite"},
		{Name: "whatever", Type: "relay"},
	}
	results := Run(deps, DefaultCheckers())
	if len(results) != 1 || results[0].Status != "OK" {
		t.Fatalf("unexpected results %#v", results)
	}
}
