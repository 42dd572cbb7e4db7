package config

import (
	"log/slog"
	"slices"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 8080 || cfg.StoreDriver != StoreFile || cfg.AutosaveInterval != 30*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.ExportWidth != 1024 || cfg.ExportHeight != 768 {
		t.Errorf("export size = %dx%d", cfg.ExportWidth, cfg.ExportHeight)
	}
	if cfg.ManifestPath != "" || cfg.MDNSAdvertise {
		t.Errorf("ManifestPath = %q, MDNSAdvertise = %v", cfg.ManifestPath, cfg.MDNSAdvertise)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("AUTOSAVE_INTERVAL", "5s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("MDNS_ADVERTISE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9000 || cfg.StoreDriver != StoreSQLite || cfg.AutosaveInterval != 5*time.Second || !cfg.MDNSAdvertise {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v", cfg.SlogLevel())
	}
	if got := cfg.Origins(); !slices.Equal(got, []string{"http://a.test", "http://b.test"}) {
		t.Errorf("Origins() = %v", got)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"STORE_DRIVER":      "mongo",
		"EXPORT_WIDTH":      "0",
		"AUTOSAVE_INTERVAL": "-1s",
		"PORT":              "eighty",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s succeeded", key, val)
			}
		})
	}
}

func TestSlogLevelFallback(t *testing.T) {
	cfg := &Config{LogLevel: "loud"}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("SlogLevel() = %v, want info", cfg.SlogLevel())
	}
}
