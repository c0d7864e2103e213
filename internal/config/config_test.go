package config_test

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/schale-tools/schale-mcp/internal/config"
	"github.com/schale-tools/schale-mcp/internal/schaledb"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if cfg.Server.LogLevel != config.LogInfo {
		t.Errorf("LogLevel = %q, want info", cfg.Server.LogLevel)
	}
	if cfg.Schale.BaseURL != schaledb.DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.Schale.BaseURL)
	}
	if cfg.Schale.DefaultLanguage != "cn" {
		t.Errorf("DefaultLanguage = %q, want cn", cfg.Schale.DefaultLanguage)
	}
}

func TestLoadFromReader_FullDocument(t *testing.T) {
	t.Parallel()

	doc := `
server:
  log_level: debug
  metrics_addr: "127.0.0.1:9090"
schale:
  base_url: "http://localhost:8000/data"
  default_language: en
  data_ttl: 10m
  localization_ttl: 4h
  request_timeout: 15s
`
	cfg, err := config.LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if cfg.Server.LogLevel != config.LogDebug {
		t.Errorf("LogLevel = %q, want debug", cfg.Server.LogLevel)
	}
	if cfg.Server.MetricsAddr != "127.0.0.1:9090" {
		t.Errorf("MetricsAddr = %q", cfg.Server.MetricsAddr)
	}
	if cfg.Schale.BaseURL != "http://localhost:8000/data" {
		t.Errorf("BaseURL = %q", cfg.Schale.BaseURL)
	}
	if got := cfg.Schale.DataTTL.Std(); got != 10*time.Minute {
		t.Errorf("DataTTL = %v, want 10m", got)
	}
	if got := cfg.Schale.LocalizationTTL.Std(); got != 4*time.Hour {
		t.Errorf("LocalizationTTL = %v, want 4h", got)
	}
	if got := cfg.Schale.RequestTimeout.Std(); got != 15*time.Second {
		t.Errorf("RequestTimeout = %v, want 15s", got)
	}
}

func TestLoadFromReader_PartialDocumentKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromReader(strings.NewReader("schale:\n  default_language: jp\n"))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Schale.DefaultLanguage != "jp" {
		t.Errorf("DefaultLanguage = %q, want jp", cfg.Schale.DefaultLanguage)
	}
	if cfg.Schale.DataTTL.Std() != schaledb.DefaultDataTTL {
		t.Errorf("DataTTL = %v, want default %v", cfg.Schale.DataTTL.Std(), schaledb.DefaultDataTTL)
	}
	if cfg.Server.LogLevel != config.LogInfo {
		t.Errorf("LogLevel = %q, want default info", cfg.Server.LogLevel)
	}
}

func TestLoadFromReader_EmptyDocumentIsValid(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader on empty document: %v", err)
	}
	if cfg.Schale.DefaultLanguage != "cn" {
		t.Errorf("DefaultLanguage = %q, want cn", cfg.Schale.DefaultLanguage)
	}
}

func TestLoadFromReader_UnknownKeyRejected(t *testing.T) {
	t.Parallel()

	_, err := config.LoadFromReader(strings.NewReader("server:\n  listen_addr: ':8080'\n"))
	if err == nil {
		t.Fatal("LoadFromReader with unknown key: err=nil, want error")
	}
}

func TestLoadFromReader_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad log level", "server:\n  log_level: verbose\n", "log_level"},
		{"bad language", "schale:\n  default_language: de\n", "default_language"},
		{"negative ttl", "schale:\n  data_ttl: -5m\n", "data_ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.LoadFromReader(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("err=nil, want validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()

	for _, l := range []config.LogLevel{config.LogDebug, config.LogInfo, config.LogWarn, config.LogError} {
		if !l.IsValid() {
			t.Errorf("IsValid(%q) = false, want true", l)
		}
	}
	if config.LogLevel("verbose").IsValid() {
		t.Error("IsValid(verbose) = true, want false")
	}
}
