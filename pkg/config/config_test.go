package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Redis.CacheTTL != 60*time.Second {
		t.Errorf("Redis.CacheTTL = %v, want 60s", cfg.Redis.CacheTTL)
	}
	if cfg.Corpus.DocsFile == "" || cfg.Corpus.NoiseWordsFile == "" {
		t.Error("corpus defaults missing")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9999
corpus:
  docsFile: /data/docs.txt
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Corpus.DocsFile != "/data/docs.txt" {
		t.Errorf("Corpus.DocsFile = %q", cfg.Corpus.DocsFile)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Unset fields keep their defaults.
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q, want default", cfg.Redis.Addr)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KS_SERVER_PORT", "7070")
	t.Setenv("KS_CORPUS_ROOT", "/srv/corpus")
	t.Setenv("KS_LOGGING_LEVEL", "error")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Corpus.Root != "/srv/corpus" {
		t.Errorf("Corpus.Root = %q", cfg.Corpus.Root)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
