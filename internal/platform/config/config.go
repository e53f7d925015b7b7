package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every client setting. Precedence: defaults, then the YAML
// config file when present, then environment variables (a .env file in the
// working directory is folded into the environment first).
type Config struct {
	APIBaseURL  string `yaml:"api_url"`
	TokenScheme string `yaml:"token_scheme"` // Authorization header scheme, e.g. "Token" or "Bearer"
	TimeoutSec  int    `yaml:"timeout_seconds"`
	DownloadDir string `yaml:"download_dir"`
	TokenPath   string `yaml:"token_path"`
}

func Defaults() Config {
	return Config{
		APIBaseURL:  "http://localhost:8000/api",
		TokenScheme: "Token",
		TimeoutSec:  15,
		DownloadDir: ".",
	}
}

// Load resolves configuration from the default file location
// (~/.config/eqviz/config.yaml) plus the environment.
func Load() (Config, error) {
	path := ""
	if home, err := os.UserHomeDir(); err == nil {
		path = filepath.Join(home, ".config", "eqviz", "config.yaml")
	}
	return LoadFrom(path)
}

// LoadFrom resolves configuration reading the YAML file at path when it
// exists. An empty path skips the file layer.
func LoadFrom(path string) (Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env
		case err != nil:
			return Config{}, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if cfg.TokenPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.TokenPath = filepath.Join(home, ".config", "eqviz", "token")
	}
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = Defaults().TimeoutSec
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("EQVIZ_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("EQVIZ_TOKEN_SCHEME"); v != "" {
		cfg.TokenScheme = v
	}
	if v := os.Getenv("EQVIZ_TIMEOUT"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			cfg.TimeoutSec = sec
		}
	}
	if v := os.Getenv("EQVIZ_DOWNLOAD_DIR"); v != "" {
		cfg.DownloadDir = v
	}
	if v := os.Getenv("EQVIZ_TOKEN_PATH"); v != "" {
		cfg.TokenPath = v
	}
}

// Timeout is the per-request deadline for every backend call.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}
