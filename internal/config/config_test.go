package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfgPath := writeTempConfig(t, `
logging:
  level: DEBUG
`)
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:5000" {
		t.Fatalf("addr default wrong: %s", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Fatalf("logging not normalized: %#v", cfg.Logging)
	}
	if cfg.Launcher.Platform != runtime.GOOS {
		t.Fatalf("platform default wrong: %s", cfg.Launcher.Platform)
	}
	if cfg.Storage.Path != "" || cfg.Storage.AuditMax != 500 {
		t.Fatalf("storage defaults wrong: %#v", cfg.Storage)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Metrics.Listen != "" {
		t.Fatalf("metrics should be off by default")
	}
}

func TestLoadFullConfig(t *testing.T) {
	cfgPath := writeTempConfig(t, `
server:
  addr: 0.0.0.0:8080
logging:
  level: warn
  format: json
metrics:
  listen: 127.0.0.1:9100
storage:
  path: $ASISTEN_TEST_DIR/audit.db
  audit_max: 20
launcher:
  platform: darwin
`)
	t.Setenv("ASISTEN_TEST_DIR", "/tmp/asisten")
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Path != "/tmp/asisten/audit.db" {
		t.Fatalf("storage path not expanded: %s", cfg.Storage.Path)
	}
	if cfg.Storage.AuditMax != 20 || cfg.Launcher.Platform != "darwin" || cfg.Metrics.Listen != "127.0.0.1:9100" {
		t.Fatalf("fields not parsed: %#v", cfg)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestLoadInvalidFails(t *testing.T) {
	cases := map[string]string{
		"bad yaml":     "server: [",
		"bad level":    "logging:\n  level: loud\n",
		"bad format":   "logging:\n  format: xml\n",
		"bad addr":     "server:\n  addr: nohostport\n",
		"same port":    "server:\n  addr: 127.0.0.1:9000\nmetrics:\n  listen: 127.0.0.1:9000\n",
		"negative max": "storage:\n  audit_max: -1\n",
	}
	for name, body := range cases {
		if _, err := Load(writeTempConfig(t, body)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestExpandPathEnvAndHome(t *testing.T) {
	t.Setenv("ASISTEN_TMP", "/tmp/asistenpath")
	got := expandPath("$ASISTEN_TMP/sub")
	if got != filepath.Clean("/tmp/asistenpath/sub") {
		t.Fatalf("expand env failed: %s", got)
	}
	home, _ := os.UserHomeDir()
	if expandPath("~/x") != filepath.Join(home, "x") {
		t.Fatalf("expand home failed")
	}
}
