// Package config loads latticework settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chazu/latticework/internal/logging"
	"github.com/chazu/latticework/pkg/engine"
	"github.com/chazu/latticework/pkg/kernel/sdfx"
	"github.com/chazu/latticework/pkg/tessellate"
)

// DefaultPath is the file read when no --config flag is given.
const DefaultPath = "latticework.yaml"

// Config holds the settings shared by the CLI commands.
type Config struct {
	LogLevel     string        `yaml:"log_level"`
	MeshCells    int           `yaml:"mesh_cells"`
	DegreeFormat bool          `yaml:"degree_format"`
	EvalTimeout  time.Duration `yaml:"eval_timeout"`
	MaxDepth     int           `yaml:"max_depth"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:    "info",
		MeshCells:   sdfx.DefaultMeshCells,
		EvalTimeout: engine.DefaultEvalTimeout,
		MaxDepth:    tessellate.DefaultMaxDepth,
	}
}

// Load reads path over the defaults. A missing file yields the defaults;
// unknown keys and invalid values are errors.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.MeshCells < 1 {
		errs = append(errs, fmt.Errorf("mesh_cells must be positive, got %d", c.MeshCells))
	}
	if c.EvalTimeout <= 0 {
		errs = append(errs, fmt.Errorf("eval_timeout must be positive, got %s", c.EvalTimeout))
	}
	if c.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth))
	}
	return errors.Join(errs...)
}
