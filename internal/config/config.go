// Package config loads the service configuration.
//
// Precedence, lowest first: built-in defaults, the YAML file, the .env file, AURA_* environment
// variables. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit file is given. It is optional.
const DefaultFile = "aura.yaml"

// Prompt sources.
const (
	SourceDir   = "dir"
	SourceRedis = "redis"
)

// Completion providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	API       APIConfig       `yaml:"api"`
	Prompts   PromptsConfig   `yaml:"prompts"`
	LLM       LLMConfig       `yaml:"llm"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Errors    ErrorsConfig    `yaml:"errors"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// APIConfig describes the service in /server/info.
type APIConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
}

type PromptsConfig struct {
	Source string `yaml:"source"`
	Dir    string `yaml:"dir"`
	System string `yaml:"system"`
	// Greeting is the greeting template id. Empty disables the greeting step.
	Greeting    string `yaml:"greeting"`
	MaxWords    int    `yaml:"max_words"`
	RedisURL    string `yaml:"redis_url"`
	RedisPrefix string `yaml:"redis_prefix"`
}

type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int64         `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
	// Retries enables the retry middleware when positive. The core never retries on its own.
	Retries int `yaml:"retries"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// ErrorsConfig controls what failure descriptions reach clients.
type ErrorsConfig struct {
	// Expose sends raw failure messages in stream error frames.
	Expose bool `yaml:"expose"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		API: APIConfig{
			Name:        "Aura",
			Description: "Workflow agent answering natural-language requests",
			Version:     "v1",
		},
		Prompts: PromptsConfig{
			Source:      SourceDir,
			Dir:         "prompts",
			System:      "system",
			Greeting:    "greeting",
			MaxWords:    10,
			RedisPrefix: "aura:prompt:",
		},
		LLM: LLMConfig{
			Provider:    ProviderOpenAI,
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
			Timeout:     60 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "aura",
		},
		Errors: ErrorsConfig{
			Expose: true,
		},
	}
}

// Load builds the configuration. An empty file means DefaultFile, which may be absent;
// an explicit file must exist.
func Load(file string) (*Config, error) {
	cfg := Default()

	path, required := file, true
	if path == "" {
		path, required = DefaultFile, false
	}
	if err := cfg.readFile(path, required); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}
