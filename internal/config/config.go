package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment override, e.g. QUICKCORE_GENERATOR_API_KEY.
const EnvPrefix = "QUICKCORE"

// Supported generator providers
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Config represents the application configuration
type Config struct {
	Generator  GeneratorConfig  `yaml:"generator" split_words:"true"`
	Extraction ExtractionConfig `yaml:"extraction" split_words:"true"`
	Output     OutputConfig     `yaml:"output" split_words:"true"`
	Server     ServerConfig     `yaml:"server" split_words:"true"`
	Log        LogConfig        `yaml:"log" split_words:"true"`
}

// GeneratorConfig represents the language model configuration
type GeneratorConfig struct {
	Provider       string   `yaml:"provider" split_words:"true"`
	APIKey         string   `yaml:"api_key" split_words:"true"`
	Model          string   `yaml:"model" split_words:"true"`
	BaseURL        string   `yaml:"base_url" split_words:"true"`
	TimeoutSeconds int      `yaml:"timeout_seconds" split_words:"true"`
	MaxTokens      int      `yaml:"max_tokens" split_words:"true"`
	Temperature    *float64 `yaml:"temperature" split_words:"true"`
	MaxInputTokens int      `yaml:"max_input_tokens" split_words:"true"`
}

// Timeout returns the per-request timeout; zero means none.
func (g GeneratorConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// ExtractionConfig represents PDF extraction configuration
type ExtractionConfig struct {
	PageSeparator string `yaml:"page_separator" split_words:"true"`
}

// OutputConfig represents where CLI runs save their results
type OutputConfig struct {
	Dir  string `yaml:"dir" split_words:"true"`
	Save bool   `yaml:"save" split_words:"true"`
}

// ServerConfig represents the web server configuration
type ServerConfig struct {
	Addr               string   `yaml:"addr" split_words:"true"`
	MaxUploadMB        int      `yaml:"max_upload_mb" split_words:"true"`
	SessionTTLMinutes  int      `yaml:"session_ttl_minutes" split_words:"true"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" split_words:"true"`
	Metrics            bool     `yaml:"metrics" split_words:"true"`
}

// SessionTTL returns how long an idle browser session is kept.
func (s ServerConfig) SessionTTL() time.Duration {
	return time.Duration(s.SessionTTLMinutes) * time.Minute
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `yaml:"level" split_words:"true"`
	Encoding   string `yaml:"encoding" split_words:"true"`
	OutputPath string `yaml:"output_path" split_words:"true"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Generator: GeneratorConfig{
			Provider:  ProviderGemini,
			MaxTokens: 8192,
		},
		Extraction: ExtractionConfig{
			PageSeparator: "\n\n",
		},
		Output: OutputConfig{
			Dir:  "output",
			Save: true,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			MaxUploadMB:       32,
			SessionTTLMinutes: 60,
			Metrics:           true,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// LoadConfig loads configuration from a YAML file, a .env file and QUICKCORE_* variables.
// A missing YAML file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// .env is optional
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	c.Generator.Provider = strings.ToLower(strings.TrimSpace(c.Generator.Provider))
	if c.Generator.Provider == "" {
		c.Generator.Provider = ProviderGemini
	}

	if c.Generator.Model == "" {
		c.Generator.Model = DefaultModel(c.Generator.Provider)
	}

	if c.Generator.MaxTokens <= 0 {
		c.Generator.MaxTokens = 8192
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "output"
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// DefaultModel returns the model used for a provider when none is configured
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	case ProviderOllama:
		return "llama3.1"
	default:
		return "gemini-2.5-flash"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Generator.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		if c.Generator.APIKey == "" {
			return fmt.Errorf("%s API key is required", c.Generator.Provider)
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("unsupported generator provider %q", c.Generator.Provider)
	}

	if c.Generator.TimeoutSeconds < 0 {
		return fmt.Errorf("generator timeout must not be negative")
	}

	if c.Generator.MaxInputTokens < 0 {
		return fmt.Errorf("generator max input tokens must not be negative")
	}

	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("server max upload size must not be negative")
	}

	return nil
}
