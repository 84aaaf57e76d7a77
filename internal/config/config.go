// Package config loads slnstart settings.
//
// Settings come from an optional YAML file:
//
//	versions: [vs2019, vs2022]
//	template_dir: ./templates
//	fallback: true
//
// A relative template_dir is resolved against the directory holding the
// file. $SLNSTART_TEMPLATE_DIR replaces template_dir when set; command-line
// flags are applied on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/slnstart/internal/variant"
)

// Config holds user settings.
type Config struct {
	// Versions names the variants written by default. Empty means variant.Default().
	Versions []string `yaml:"versions,omitempty"`

	// TemplateDir holds the .suotemplate files.
	TemplateDir string `yaml:"template_dir,omitempty"`

	// Fallback allows a blank container when a template is missing. Defaults to true.
	Fallback *bool `yaml:"fallback,omitempty"`
}

// Parse decodes and validates YAML settings. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every configured version is known.
func (c *Config) Validate() error {
	if _, err := variant.Parse(c.Versions...); err != nil {
		return fmt.Errorf("config: versions: %w", err)
	}
	return nil
}

// Variants returns the configured variants, or variant.Default() when none are set.
func (c *Config) Variants() ([]variant.Variant, error) {
	if len(c.Versions) == 0 {
		return variant.Default(), nil
	}
	return variant.Parse(c.Versions...)
}

// UseFallback reports whether a missing template may be replaced by a blank container.
func (c *Config) UseFallback() bool {
	return c.Fallback == nil || *c.Fallback
}

func (c *Config) resolveRelative(baseDir string) {
	if c.TemplateDir != "" && !filepath.IsAbs(c.TemplateDir) {
		c.TemplateDir = filepath.Join(baseDir, c.TemplateDir)
	}
}
