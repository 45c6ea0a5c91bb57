package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFile() on missing file error = %v", err)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want default %q", cfg.Cache.Backend, "file")
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("Serve.Addr = %q, want default %q", cfg.Serve.Addr, ":8080")
	}
}

func TestLoadFile(t *testing.T) {
	content := `
[cache]
backend = "redis"
redis_addr = "localhost:6380"

[store]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"

[render]
format = "png"
show_variables = true
`
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Cache.Backend != "redis" {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, "redis")
	}
	if cfg.Cache.RedisAddr != "localhost:6380" {
		t.Errorf("Cache.RedisAddr = %q, want %q", cfg.Cache.RedisAddr, "localhost:6380")
	}
	if cfg.Store.Backend != "mongo" {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, "mongo")
	}
	if cfg.Render.Format != "png" {
		t.Errorf("Render.Format = %q, want %q", cfg.Render.Format, "png")
	}
	if !cfg.Render.ShowVariables {
		t.Error("Render.ShowVariables should be true")
	}
	// Unset sections keep defaults
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("Serve.Addr = %q, want default %q", cfg.Serve.Addr, ":8080")
	}
}

func TestLoadFileInvalidBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"memcached\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("Unknown backend should fail")
	}
}

func TestPathOverride(t *testing.T) {
	t.Setenv("XDSMVIEW_CONFIG", "/tmp/custom.toml")

	path, err := Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if path != "/tmp/custom.toml" {
		t.Errorf("Path() = %q, want %q", path, "/tmp/custom.toml")
	}
}

func TestPathXDG(t *testing.T) {
	t.Setenv("XDSMVIEW_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	path, err := Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	want := filepath.Join("/xdg", "xdsmview", "config.toml")
	if path != want {
		t.Errorf("Path() = %q, want %q", path, want)
	}
}
