package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docoutline/internal/typography"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "WORKER_COUNT", "JOB_TTL", "LOG_LEVEL", "PATHSTORE_URL", "CATALOG_PATH"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.JobTTL)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.LogLevel)
	}
	if cfg.PublishEnabled() {
		t.Error("expected publishing disabled without PATHSTORE_URL")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("JOB_TTL", "15m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PUBLISH_ATTEMPTS", "5")
	t.Setenv("MAX_QUEUE_SIZE", "not-a-number")

	cfg := Load()
	if cfg.WorkerCount != 4 {
		t.Errorf("expected non-positive worker count clamped to 4, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != 15*time.Minute {
		t.Errorf("expected 15m, got %v", cfg.JobTTL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.LogLevel)
	}
	if cfg.PublishAttempts != 5 {
		t.Errorf("expected 5 attempts, got %d", cfg.PublishAttempts)
	}
	if cfg.MaxQueueSize != 100 {
		t.Errorf("expected fallback queue size 100, got %d", cfg.MaxQueueSize)
	}
}

func TestValidate(t *testing.T) {
	ok := Config{APIKey: "k", DefaultChunkSize: 1500, DefaultChunkOverlap: 200}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noKey := ok
	noKey.APIKey = ""
	if err := noKey.Validate(); err == nil || !strings.Contains(err.Error(), "DOCOUTLINE_API_KEY") {
		t.Errorf("expected api key error, got %v", err)
	}

	noStoreKey := ok
	noStoreKey.PathstoreURL = "http://localhost:8080"
	if err := noStoreKey.Validate(); err == nil {
		t.Error("expected error for pathstore without key")
	}

	overlap := ok
	overlap.DefaultChunkOverlap = 1500
	if err := overlap.Validate(); err == nil {
		t.Error("expected error when overlap >= chunk size")
	}
}

func TestLoadCatalog(t *testing.T) {
	cat, err := LoadCatalog(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Depth() != typography.DefaultCatalog().Depth() {
		t.Errorf("expected built-in catalog")
	}

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := typography.DefaultCatalog().WriteYAML(f); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := LoadCatalog(Config{CatalogPath: path}); err != nil {
		t.Fatalf("unexpected error loading %s: %v", path, err)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("body: content\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(Config{CatalogPath: bad}); err == nil {
		t.Error("expected validation error for incomplete catalog")
	}
	if _, err := LoadCatalog(Config{CatalogPath: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("expected error for missing file")
	}
}
