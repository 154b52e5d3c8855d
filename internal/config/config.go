package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/david/uni-finder/internal/ingest"
)

//go:embed config.yaml
var defaultYAML []byte

// EnvFile names the environment variable holding an optional override file.
const EnvFile = "UNIFINDER_CONFIG"

const maxPageSize = 100

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Query   QueryConfig   `yaml:"query"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatasetConfig says where the dataset comes from. Source is a file path or
// an http(s) URL.
type DatasetConfig struct {
	Source         string `yaml:"source"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

type QueryConfig struct {
	PageSize   int `yaml:"page_size"`
	DebounceMS int `yaml:"debounce_ms"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load builds the configuration from the embedded defaults, the optional
// file at path (or $UNIFINDER_CONFIG when path is empty), and finally the
// PORT, DATASET_SOURCE, LOG_LEVEL and CORS_ORIGINS environment variables.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := decode(defaultYAML, &cfg); err != nil {
		return nil, fmt.Errorf("embedded config: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvFile)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := decode(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	cfg.normalize()
	return &cfg, nil
}

// decode expands ${VAR} references before unmarshalling over cfg, so a
// partial file only overrides the keys it sets.
func decode(data []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(data))
	return yaml.Unmarshal([]byte(expanded), cfg)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DATASET_SOURCE"); v != "" {
		cfg.Dataset.Source = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.Server.CORSOrigins = append(cfg.Server.CORSOrigins, o)
			}
		}
	}
}

func (c *Config) normalize() {
	if c.Server.Port == "" {
		c.Server.Port = "8081"
	}
	if c.Query.PageSize <= 0 {
		c.Query.PageSize = 25
	}
	if c.Query.PageSize > maxPageSize {
		c.Query.PageSize = maxPageSize
	}
	if c.Query.DebounceMS <= 0 {
		c.Query.DebounceMS = 300
	}
	if c.Dataset.TimeoutSeconds <= 0 {
		c.Dataset.TimeoutSeconds = 30
	}
	if c.Dataset.MaxRetries < 0 {
		c.Dataset.MaxRetries = 0
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Fetch returns the fetcher settings for the dataset source.
func (c *Config) Fetch() ingest.FetchConfig {
	return ingest.FetchConfig{
		TimeoutSeconds: c.Dataset.TimeoutSeconds,
		MaxRetries:     c.Dataset.MaxRetries,
	}
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Query.DebounceMS) * time.Millisecond
}
