package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// API types understood by the transport.
const (
	APITypeAzure  = "azure"
	APITypeOpenAI = "openai"
)

// Config holds all sgpt configuration.
type Config struct {
	APIHost          string    `yaml:"api_host"`
	APIKey           string    `yaml:"api_key"`
	APIType          string    `yaml:"api_type"`
	AzureAPIVersion  string    `yaml:"azure_api_version"`
	DefaultModel     string    `yaml:"default_model"`
	CacheLength      int       `yaml:"cache_length"`
	CachePath        string    `yaml:"cache_path"`
	RequestTimeout   int       `yaml:"request_timeout"` // seconds
	DisableStreaming bool      `yaml:"disable_streaming"`
	MetricsTextfile  string    `yaml:"metrics_textfile"`
	Log              LogConfig `yaml:"log"`
}

// LogConfig controls logger level and output format ("text" or "json").
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		APIHost:         "https://api.openai.com",
		APIType:         APITypeAzure,
		AzureAPIVersion: "2023-05-15",
		DefaultModel:    "gpt-35-turbo",
		CacheLength:     100,
		CachePath:       filepath.Join(os.TempDir(), "sgpt", "cache.db"),
		RequestTimeout:  60,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// Load reads a config file and applies environment overrides.
//
// Files ending in .yaml or .yml are decoded as YAML after environment
// variable expansion. Anything else is treated as a KEY=VALUE rc file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	default:
		values, err := godotenv.Unmarshal(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if err := cfg.apply(values); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.apply(environ()); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}
	return cfg, nil
}

// FromEnv returns the defaults overridden by environment variables.
func FromEnv() (*Config, error) {
	cfg := Default()
	if err := cfg.apply(environ()); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the values the pipeline depends on. Generation parameters
// are not part of the config and are forwarded unchecked.
func (c *Config) Validate() error {
	if c.CacheLength <= 0 {
		return fmt.Errorf("CACHE_LENGTH must be greater than 0, got %d", c.CacheLength)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be greater than 0, got %d", c.RequestTimeout)
	}
	switch c.APIType {
	case APITypeAzure, APITypeOpenAI:
	default:
		return fmt.Errorf("OPENAI_API_TYPE must be %q or %q, got %q", APITypeAzure, APITypeOpenAI, c.APIType)
	}
	return nil
}

var rcKeys = []string{
	"OPENAI_API_HOST",
	"OPENAI_API_KEY",
	"OPENAI_API_TYPE",
	"AZURE_API_VERSION",
	"DEFAULT_MODEL",
	"CACHE_LENGTH",
	"CACHE_PATH",
	"REQUEST_TIMEOUT",
	"DISABLE_STREAMING",
	"METRICS_TEXTFILE",
	"LOG_LEVEL",
	"LOG_FORMAT",
}

func environ() map[string]string {
	values := make(map[string]string)
	for _, k := range rcKeys {
		if v, ok := os.LookupEnv(k); ok && v != "" {
			values[k] = v
		}
	}
	return values
}

// apply overlays rc-style KEY=VALUE pairs onto the config. Unknown keys are ignored.
func (c *Config) apply(values map[string]string) error {
	for k, v := range values {
		switch k {
		case "OPENAI_API_HOST":
			c.APIHost = v
		case "OPENAI_API_KEY":
			c.APIKey = v
		case "OPENAI_API_TYPE":
			c.APIType = strings.ToLower(v)
		case "AZURE_API_VERSION":
			c.AzureAPIVersion = v
		case "DEFAULT_MODEL":
			c.DefaultModel = v
		case "CACHE_LENGTH":
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("CACHE_LENGTH must be a valid integer: %w", err)
			}
			c.CacheLength = n
		case "CACHE_PATH":
			c.CachePath = v
		case "REQUEST_TIMEOUT":
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("REQUEST_TIMEOUT must be a valid integer: %w", err)
			}
			c.RequestTimeout = n
		case "DISABLE_STREAMING":
			// Streaming stays on only for the literal "false".
			c.DisableStreaming = v != "false"
		case "METRICS_TEXTFILE":
			c.MetricsTextfile = v
		case "LOG_LEVEL":
			c.Log.Level = v
		case "LOG_FORMAT":
			c.Log.Format = v
		}
	}
	return nil
}
