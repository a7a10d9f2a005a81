package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadFull(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[run]
timeout = "5s"
max_call_depth = 128

[preprocess]
include_dir = "lib"
defines = { DEBUG = "true" }

[crash]
dir = "out/crashes"
file = false
archive = true

[trace]
level = "phase"
ring_size = 64
`)
	cfg, err := Load(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Run.Timeout.Duration != 5*time.Second || cfg.Run.MaxCallDepth != 128 {
		t.Fatalf("run = %+v", cfg.Run)
	}
	if cfg.Preprocess.IncludeDir != filepath.Join(cfg.Root, "lib") || cfg.Preprocess.Defines["DEBUG"] != "true" {
		t.Fatalf("preprocess = %+v", cfg.Preprocess)
	}
	if cfg.Crash.Dir != filepath.Join(cfg.Root, "out", "crashes") || cfg.Crash.File || !cfg.Crash.Archive {
		t.Fatalf("crash = %+v", cfg.Crash)
	}
	// не заданное в файле остаётся по умолчанию
	if !cfg.Crash.Console {
		t.Fatal("crash.console default lost")
	}
	if cfg.Trace.Level != "phase" || cfg.Trace.RingSize != 64 {
		t.Fatalf("trace = %+v", cfg.Trace)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"unknown key", "[run]\nspeed = 1\n", "unknown keys: run.speed"},
		{"depth", "[run]\nmax_call_depth = 0\n", "max_call_depth must be positive"},
		{"level", "[trace]\nlevel = \"loud\"\n", "invalid trace level"},
		{"ring", "[trace]\nring_size = -1\n", "ring_size must be positive"},
		{"timeout", "[run]\ntimeout = \"soon\"\n", "failed to parse TOML"},
		{"escape", "[preprocess]\ninclude_dir = \"../outside\"\n", "escapes project root"},
		{"empty dir", "[crash]\ndir = \"\"\n", "crash.dir must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := Load(writeManifest(t, dir, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[trace]\nlevel = \"debug\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Trace.Level != "debug" {
		t.Fatalf("trace level = %q", cfg.Trace.Level)
	}
	if found, ok, _ := FindProjectRoot(nested); !ok || found != cfg.Root {
		t.Fatalf("root = %q, cfg.Root = %q", found, cfg.Root)
	}
}

func TestDiscoverWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Discover(dir)
	if !errors.Is(err, ErrNoManifest) {
		t.Fatalf("err = %v", err)
	}
	if cfg.Path != "" || cfg.Run.MaxCallDepth != 512 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if !strings.HasSuffix(cfg.Crash.Dir, filepath.Join(".lazuli", "crashes")) || !filepath.IsAbs(cfg.Crash.Dir) {
		t.Fatalf("crash dir = %q", cfg.Crash.Dir)
	}
}
