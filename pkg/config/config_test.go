package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Gor-c/emind/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[layout]
balance_threshold = 5

[theme]
accent = "teal"

[viewport]
transition = "400ms"
reset_scale = 0.75

[export]
padding = 80
decode_timeout = "5s"

[server]
addr = "127.0.0.1:9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Layout.BalanceThreshold != 5 || cfg.Layout.VerticalBase != def.Layout.VerticalBase {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Theme.Accent != "teal" || cfg.Theme.Edge != def.Theme.Edge {
		t.Errorf("theme = %+v", cfg.Theme)
	}
	if cfg.Viewport.Transition != 400*time.Millisecond || cfg.Viewport.ResetScale != 0.75 || cfg.Viewport.MaxScale != 10 {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.Export.Padding != 80 || cfg.Export.DecodeTimeout != 5*time.Second || cfg.Export.Prefix != "VisionMind_" {
		t.Errorf("export = %+v", cfg.Export)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.Width != 1200 {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[layout\n", errors.ErrCodeInvalidConfig},
		{"unknown key", "[layout]\nvertical_bass = 3\n", errors.ErrCodeInvalidConfig},
		{"invalid value", "[viewport]\nmin_scale = -1\n", errors.ErrCodeInvalidConfig},
		{"bad color", "[theme]\nnode = \"sort of blue\"\n", errors.ErrCodeInvalidConfig},
		{"bad rasterizer", "[export]\nrasterizer = \"cairo\"\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load error = %v, want %s", err, tt.code)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestUnknownKeyNamed(t *testing.T) {
	_, err := Load(writeConfig(t, "[export]\npadd = 1\n"))
	if err == nil || !strings.Contains(err.Error(), "export.padd") {
		t.Errorf("error = %v, want it to name export.padd", err)
	}
}

func TestPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/custom-config", AppName, "config.toml"); path != want {
		t.Errorf("Path() = %q, want %q", path, want)
	}
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault without file: %v", err)
	}
	if cfg.Export.Padding != 50 {
		t.Errorf("Padding = %v, want default", cfg.Export.Padding)
	}

	if err := os.MkdirAll(filepath.Join(dir, AppName), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, AppName, "config.toml"), []byte("[export]\npadding = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault with file: %v", err)
	}
	if cfg.Export.Padding != 10 {
		t.Errorf("Padding = %v, want 10 from file", cfg.Export.Padding)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	dir, err := Default().CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/custom-cache", AppName); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	home, _ := os.UserHomeDir()
	dir, err = Default().CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".cache", AppName); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}

	cfg := Default()
	cfg.Cache.Dir = "/srv/emind-cache"
	if dir, _ := cfg.CacheDir(); dir != "/srv/emind-cache" {
		t.Errorf("CacheDir() override = %q", dir)
	}
}
