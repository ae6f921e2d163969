package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, envFrom(nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 3000 || cfg.Addr() != ":3000" {
		t.Fatalf("expected port 3000, got %d (%s)", cfg.Port, cfg.Addr())
	}
	if cfg.Engine != EngineChi || cfg.Variant != 3 || cfg.CSRFStore != StoreMemory {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CSRFTTL != time.Hour || cfg.CSRFCookie != "csrf_session" {
		t.Fatalf("unexpected CSRF defaults: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("expected CORS off by default, got %v", cfg.CORSOrigins)
	}
}

func TestLoadEnv(t *testing.T) {
	cfg, err := Load(nil, envFrom(map[string]string{
		"PORT":         "8080",
		"ENGINE":       "gin",
		"VARIANT":      "2",
		"CSRF_TTL":     "15m",
		"CSRF_SECURE":  "true",
		"CORS_ORIGINS": "http://a.test, http://b.test,",
		"LOG_LEVEL":    "debug",
		"LOG_FORMAT":   "json",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.Engine != EngineGin || cfg.Variant != 2 {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.CSRFTTL != 15*time.Minute || !cfg.CSRFSecure {
		t.Fatalf("CSRF env not applied: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != LogJSON {
		t.Fatalf("log env not applied: %+v", cfg)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	cfg, err := Load(
		[]string{"-port", "9000", "-variant", "1", "-log-level", "warn"},
		envFrom(map[string]string{"PORT": "8080", "VARIANT": "2"}),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9000 || cfg.Variant != 1 {
		t.Fatalf("flags should win: %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Fatalf("expected warn level, got %v", cfg.LogLevel)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad port env", nil, map[string]string{"PORT": "http"}},
		{"port range", []string{"-port", "70000"}, nil},
		{"engine", []string{"-engine", "echo"}, nil},
		{"variant", []string{"-variant", "4"}, nil},
		{"store", []string{"-csrf-store", "disk"}, nil},
		{"signed without key", []string{"-csrf-store", "signed"}, nil},
		{"short key", []string{"-csrf-store", "signed", "-csrf-signing-key", "abc"}, nil},
		{"ttl", []string{"-csrf-ttl", "0s"}, nil},
		{"log format", []string{"-log-format", "xml"}, nil},
		{"bad bool env", nil, map[string]string{"CSRF_SECURE": "maybe"}},
		{"bad duration env", nil, map[string]string{"CSRF_TTL": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args, envFrom(tt.env))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadSignedStore(t *testing.T) {
	cfg, err := Load([]string{"-csrf-store", "signed"}, envFrom(map[string]string{
		"CSRF_SIGNING_KEY": "0123456789abcdef0123456789abcdef",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CSRFStore != StoreSigned {
		t.Fatalf("expected signed store, got %q", cfg.CSRFStore)
	}
}

func TestUnknownFlag(t *testing.T) {
	if _, err := Load([]string{"-nope"}, envFrom(nil)); err == nil {
		t.Fatalf("expected an error for an unknown flag")
	}
}
