package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxRetries != 2 || cfg.RetryBaseDelay != 500*time.Millisecond {
		t.Fatalf("unexpected retry defaults: %+v", cfg)
	}
	if cfg.Supadata.Rotation != "round_robin" {
		t.Fatalf("expected round_robin default, got %q", cfg.Supadata.Rotation)
	}
	if len(cfg.Languages) == 0 {
		t.Fatalf("expected default language preference")
	}
}

func TestLoad_ReadsYAMLAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	raw := `
output_dir: /data/transcripts
max_retries: -3
supadata:
  api_keys: ["  key-1 ", "", "key-2"]
  key_rotation: RANDOM
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OutputDir != "/data/transcripts" {
		t.Fatalf("output dir not read: %q", cfg.OutputDir)
	}
	if cfg.MaxRetries != 0 {
		t.Fatalf("negative retries should clamp to 0, got %d", cfg.MaxRetries)
	}
	if len(cfg.Supadata.APIKeys) != 2 || cfg.Supadata.APIKeys[0] != "key-1" {
		t.Fatalf("keys not normalized: %v", cfg.Supadata.APIKeys)
	}
	if cfg.Supadata.Rotation != "random" {
		t.Fatalf("rotation not normalized: %q", cfg.Supadata.Rotation)
	}
}

func TestLoad_EnvOverridesKeys(t *testing.T) {
	t.Setenv("READVIDEO_SUPADATA_KEYS", "env-a, env-b")
	t.Setenv("READVIDEO_PROXY", "http://127.0.0.1:7890")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Supadata.APIKeys) != 2 || cfg.Supadata.APIKeys[1] != "env-b" {
		t.Fatalf("env keys not applied: %v", cfg.Supadata.APIKeys)
	}
	if cfg.ProxyURL != "http://127.0.0.1:7890" {
		t.Fatalf("env proxy not applied: %q", cfg.ProxyURL)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cfg.yaml")
	want := Default()
	want.OutputDir = "/tmp/out"
	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.OutputDir != "/tmp/out" {
		t.Fatalf("round trip lost output dir: %+v", got)
	}
}
