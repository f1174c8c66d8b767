package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.APIType != APITypeAzure {
		t.Errorf("expected azure, got %s", cfg.APIType)
	}
	if cfg.CacheLength != 100 {
		t.Errorf("expected cache length 100, got %d", cfg.CacheLength)
	}
	if cfg.Timeout() != 60*time.Second {
		t.Errorf("expected 60s timeout, got %v", cfg.Timeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-test-123")

	path := writeFile(t, "sgpt.yaml", `
api_host: https://example.openai.azure.com
api_key: ${TEST_API_KEY}
cache_length: 5
cache_path: /tmp/sgpt-test.db
request_timeout: 15
disable_streaming: true
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.APIKey != "sk-test-123" {
		t.Errorf("env var not expanded: got %s", cfg.APIKey)
	}
	if cfg.CacheLength != 5 {
		t.Errorf("expected cache length 5, got %d", cfg.CacheLength)
	}
	if cfg.Timeout() != 15*time.Second {
		t.Errorf("expected 15s timeout, got %v", cfg.Timeout())
	}
	if !cfg.DisableStreaming {
		t.Error("expected streaming disabled")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected json log format, got %s", cfg.Log.Format)
	}
	if cfg.AzureAPIVersion != "2023-05-15" {
		t.Errorf("default api version lost: %s", cfg.AzureAPIVersion)
	}
}

func TestLoadRCFile(t *testing.T) {
	path := writeFile(t, ".sgptrc", `OPENAI_API_HOST=https://example.openai.azure.com
OPENAI_API_KEY=sk-rc
CACHE_LENGTH=42
CACHE_PATH=/tmp/sgpt/cache.db
REQUEST_TIMEOUT=30
DISABLE_STREAMING=false
AZURE_API_VERSION=2024-02-15-preview
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "sk-rc" {
		t.Errorf("expected sk-rc, got %s", cfg.APIKey)
	}
	if cfg.CacheLength != 42 {
		t.Errorf("expected 42, got %d", cfg.CacheLength)
	}
	if cfg.RequestTimeout != 30 {
		t.Errorf("expected 30, got %d", cfg.RequestTimeout)
	}
	if cfg.DisableStreaming {
		t.Error("expected streaming enabled")
	}
	if cfg.AzureAPIVersion != "2024-02-15-preview" {
		t.Errorf("unexpected api version %s", cfg.AzureAPIVersion)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("CACHE_LENGTH", "7")

	path := writeFile(t, ".sgptrc", "OPENAI_API_KEY=sk-rc\nCACHE_LENGTH=42\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "sk-env" {
		t.Errorf("expected env key to win, got %s", cfg.APIKey)
	}
	if cfg.CacheLength != 7 {
		t.Errorf("expected 7, got %d", cfg.CacheLength)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"cache length", "CACHE_LENGTH=many\n"},
		{"timeout", "REQUEST_TIMEOUT=soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, ".sgptrc", tt.content)
			if _, err := Load(path); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestDisableStreamingValues(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"false", false},
		{"true", true},
		{"yes", true},
		{"False", true},
		{"0", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			path := writeFile(t, ".sgptrc", "DISABLE_STREAMING="+tt.value+"\n")
			cfg, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.DisableStreaming != tt.want {
				t.Errorf("expected DisableStreaming=%v, got %v", tt.want, cfg.DisableStreaming)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DISABLE_STREAMING", "true")
	t.Setenv("OPENAI_API_TYPE", "OpenAI")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.DisableStreaming {
		t.Error("expected streaming disabled")
	}
	if cfg.APIType != APITypeOpenAI {
		t.Errorf("expected openai, got %s", cfg.APIType)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero cache length", func(c *Config) { c.CacheLength = 0 }},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -1 }},
		{"unknown api type", func(c *Config) { c.APIType = "bedrock" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
