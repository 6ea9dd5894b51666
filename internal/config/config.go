// Package config loads the workspace configuration: acquisition policy,
// tool paths, and subtitle-source credentials. A Config value is built
// once at startup and passed explicitly into the orchestrator and the
// platform handlers; nothing here is process-global.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFileName = ".readvideo.yaml"

// Config is the fully-resolved runtime configuration.
type Config struct {
	OutputDir        string        `yaml:"output_dir"`
	WhisperModelPath string        `yaml:"whisper_model_path"`
	Languages        []string      `yaml:"languages"`
	ProxyURL         string        `yaml:"proxy_url"`
	MaxRetries       int           `yaml:"max_retries"`
	RetryBaseDelay   time.Duration `yaml:"retry_base_delay"`

	Supadata SupadataConfig `yaml:"supadata"`
}

// SupadataConfig configures the hosted subtitle API. Keys come from the
// environment (.env) when not present in the file, so credentials stay
// out of checked-in config.
type SupadataConfig struct {
	BaseURL  string   `yaml:"base_url"`
	APIKeys  []string `yaml:"api_keys"`
	Rotation string   `yaml:"key_rotation"` // round_robin | random
}

func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		OutputDir:        ".",
		WhisperModelPath: filepath.Join(home, ".whisper-models", "ggml-large-v3.bin"),
		Languages:        []string{"zh", "zh-Hans", "zh-Hant", "en"},
		MaxRetries:       2,
		RetryBaseDelay:   500 * time.Millisecond,
		Supadata: SupadataConfig{
			BaseURL:  "https://api.supadata.ai/v1",
			Rotation: "round_robin",
		},
	}
}

// DefaultPath is ~/.readvideo.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(home, DefaultConfigFileName)
}

// Load reads the YAML config at path (missing file falls back to
// defaults), then overlays environment values. A .env in the working
// directory is loaded first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults apply
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)
	normalize(&cfg)
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("READVIDEO_SUPADATA_KEYS")); v != "" {
		cfg.Supadata.APIKeys = splitList(v)
	}
	if v := strings.TrimSpace(os.Getenv("READVIDEO_SUPADATA_BASE_URL")); v != "" {
		cfg.Supadata.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("READVIDEO_PROXY")); v != "" {
		cfg.ProxyURL = v
	}
}

func normalize(cfg *Config) {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 500 * time.Millisecond
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = Default().Languages
	}
	if strings.TrimSpace(cfg.Supadata.BaseURL) == "" {
		cfg.Supadata.BaseURL = Default().Supadata.BaseURL
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Supadata.Rotation)) {
	case "random":
		cfg.Supadata.Rotation = "random"
	default:
		cfg.Supadata.Rotation = "round_robin"
	}
	keys := make([]string, 0, len(cfg.Supadata.APIKeys))
	for _, k := range cfg.Supadata.APIKeys {
		if v := strings.TrimSpace(k); v != "" {
			keys = append(keys, v)
		}
	}
	cfg.Supadata.APIKeys = keys
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
