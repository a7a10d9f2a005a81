// Package project loads lazuli.toml, the per-project run configuration.
package project

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"lazuli/internal/trace"
)

// Duration decodes TOML strings like "5s" or "250ms".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("negative duration %q", text)
	}
	d.Duration = v
	return nil
}

type RunConfig struct {
	Timeout      Duration `toml:"timeout"`
	MaxCallDepth int      `toml:"max_call_depth"`
}

type PreprocessConfig struct {
	IncludeDir string            `toml:"include_dir"`
	Defines    map[string]string `toml:"defines"`
}

type CrashConfig struct {
	Dir     string `toml:"dir"`
	File    bool   `toml:"file"`
	Archive bool   `toml:"archive"`
	Console bool   `toml:"console"`
}

type TraceConfig struct {
	Level    string `toml:"level"`
	RingSize int    `toml:"ring_size"`
}

// Config is the decoded lazuli.toml. Paths in it are relative to Root
// until Load resolves them.
type Config struct {
	Path string `toml:"-"` // "": файла нет, значения по умолчанию
	Root string `toml:"-"`

	Run        RunConfig        `toml:"run"`
	Preprocess PreprocessConfig `toml:"preprocess"`
	Crash      CrashConfig      `toml:"crash"`
	Trace      TraceConfig      `toml:"trace"`
}

// Default returns the configuration used without a manifest.
func Default() Config {
	return Config{
		Run:   RunConfig{MaxCallDepth: 512},
		Crash: CrashConfig{Dir: filepath.Join(".lazuli", "crashes"), File: true, Archive: true, Console: true},
		Trace: TraceConfig{Level: "off", RingSize: 256},
	}
}

// Load decodes the manifest at path on top of Default and resolves paths
// against its directory.
func Load(path string) (Config, error) {
	cfg := Default()
	abs, err := filepath.Abs(path)
	if err != nil {
		return cfg, err
	}
	meta, err := toml.DecodeFile(abs, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = abs
	cfg.Root = filepath.Dir(abs)
	if err := cfg.validate(meta); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.resolvePaths(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds lazuli.toml upwards from startDir and loads it. Without a
// manifest it returns Default rooted at startDir together with ErrNoManifest.
func Discover(startDir string) (Config, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return Default(), err
	}
	if !ok {
		cfg := Default()
		if startDir == "" {
			startDir = "."
		}
		root, absErr := filepath.Abs(startDir)
		if absErr != nil {
			return cfg, absErr
		}
		cfg.Root = root
		if err := cfg.resolvePaths(); err != nil {
			return cfg, err
		}
		return cfg, ErrNoManifest
	}
	return Load(path)
}

func (c *Config) validate(meta toml.MetaData) error {
	if meta.IsDefined("run", "max_call_depth") && c.Run.MaxCallDepth <= 0 {
		return fmt.Errorf("run.max_call_depth must be positive, got %d", c.Run.MaxCallDepth)
	}
	if meta.IsDefined("trace", "level") {
		if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
			return fmt.Errorf("trace.level: %w", err)
		}
	}
	if meta.IsDefined("trace", "ring_size") && c.Trace.RingSize <= 0 {
		return fmt.Errorf("trace.ring_size must be positive, got %d", c.Trace.RingSize)
	}
	if meta.IsDefined("crash", "dir") && strings.TrimSpace(c.Crash.Dir) == "" {
		return fmt.Errorf("crash.dir must not be empty")
	}
	return nil
}

func (c *Config) resolvePaths() error {
	var err error
	if c.Crash.Dir, err = resolveWithin(c.Root, c.Crash.Dir, "crash.dir"); err != nil {
		return err
	}
	if c.Preprocess.IncludeDir, err = resolveWithin(c.Root, c.Preprocess.IncludeDir, "preprocess.include_dir"); err != nil {
		return err
	}
	return nil
}
