package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/schale-tools/schale-mcp/internal/schaledb"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. A missing file is not an error: the defaults are returned, so
// the server runs without any configuration on disk.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults for unset
// fields, and validates the result. Unknown keys are an error. Useful in
// tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero-valued fields after decoding, since a partial
// document overwrites the pre-seeded defaults with zero values.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = def.Server.LogLevel
	}
	if cfg.Schale.BaseURL == "" {
		cfg.Schale.BaseURL = def.Schale.BaseURL
	}
	if cfg.Schale.DefaultLanguage == "" {
		cfg.Schale.DefaultLanguage = def.Schale.DefaultLanguage
	}
	if cfg.Schale.DataTTL == 0 {
		cfg.Schale.DataTTL = def.Schale.DataTTL
	}
	if cfg.Schale.LocalizationTTL == 0 {
		cfg.Schale.LocalizationTTL = def.Schale.LocalizationTTL
	}
	if cfg.Schale.RequestTimeout == 0 {
		cfg.Schale.RequestTimeout = def.Schale.RequestTimeout
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if lang := cfg.Schale.DefaultLanguage; lang != "" && !schaledb.ValidLanguage(lang) {
		errs = append(errs, fmt.Errorf("schale.default_language %q is invalid; valid values: cn, jp, en, kr, th", lang))
	}
	if cfg.Schale.DataTTL < 0 {
		errs = append(errs, fmt.Errorf("schale.data_ttl %v must not be negative", cfg.Schale.DataTTL))
	}
	if cfg.Schale.LocalizationTTL < 0 {
		errs = append(errs, fmt.Errorf("schale.localization_ttl %v must not be negative", cfg.Schale.LocalizationTTL))
	}
	if cfg.Schale.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("schale.request_timeout %v must not be negative", cfg.Schale.RequestTimeout))
	}

	return errors.Join(errs...)
}
