// Package config provides the configuration schema and loader for the
// schale-mcp server.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/schale-tools/schale-mcp/internal/schaledb"
)

// LogLevel controls log verbosity for the server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Duration is a [time.Duration] that decodes from YAML strings like "5m"
// or "30s" (plain integers are taken as nanoseconds, matching
// [time.Duration]'s native representation).
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(v)
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
	return nil
}

// Std returns the value as a [time.Duration].
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root configuration structure. It is typically loaded from a
// YAML file using [Load] or [LoadFromReader]; every field has a working
// default, so an absent file or empty document is a valid configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Schale SchaleConfig `yaml:"schale"`
}

// ServerConfig holds logging and observability settings.
type ServerConfig struct {
	// LogLevel controls verbosity. Defaults to "info".
	LogLevel LogLevel `yaml:"log_level"`

	// MetricsAddr, when set, is the TCP address of a Prometheus /metrics
	// endpoint (e.g. "127.0.0.1:9090"). Empty disables the listener; the
	// tool transport itself runs on stdio either way.
	MetricsAddr string `yaml:"metrics_addr"`
}

// SchaleConfig holds upstream fetch settings.
type SchaleConfig struct {
	// BaseURL overrides the upstream data root. Empty uses the public
	// SchaleDB endpoint.
	BaseURL string `yaml:"base_url"`

	// DefaultLanguage is the language code used when a tool call does not
	// name one. Defaults to "cn".
	DefaultLanguage string `yaml:"default_language"`

	// DataTTL is the cache lifetime for entity collections.
	DataTTL Duration `yaml:"data_ttl"`

	// LocalizationTTL is the cache lifetime for localization and lookup
	// tables.
	LocalizationTTL Duration `yaml:"localization_ttl"`

	// RequestTimeout bounds each upstream HTTP request.
	RequestTimeout Duration `yaml:"request_timeout"`
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			LogLevel: LogInfo,
		},
		Schale: SchaleConfig{
			BaseURL:         schaledb.DefaultBaseURL,
			DefaultLanguage: "cn",
			DataTTL:         Duration(schaledb.DefaultDataTTL),
			LocalizationTTL: Duration(schaledb.DefaultLocalizationTTL),
			RequestTimeout:  Duration(30 * time.Second),
		},
	}
}
