// Package config handles application configuration using Viper.
// Viper supports YAML files, environment variables, and defaults: merged in priority order.
// Go convention: configuration is loaded into structs, not accessed as raw key-value pairs.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Provider names accepted by llm.text_provider and llm.image_provider.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ErrMissingCredential is returned by Validate when the selected provider has no API key.
var ErrMissingCredential = errors.New("missing API credential")

// Config is the root configuration struct. Nested structs organize related settings.
// `mapstructure` tags tell Viper how to map YAML/env keys to struct fields.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Image     ImageConfig     `mapstructure:"image"`
	Batch     BatchConfig     `mapstructure:"batch"`
	UI        UIConfig        `mapstructure:"ui"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path"`
	ExportDir    string `mapstructure:"export_dir"`
}

// AuthConfig holds API keys. An empty APIKeys list leaves the JSON
// generation API open; the admin endpoints always require an admin key.
type AuthConfig struct {
	APIKeys   []string `mapstructure:"api_keys"`
	AdminKeys []string `mapstructure:"admin_keys"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LLMConfig struct {
	// TextProvider generates ideas and SVG source; ImageProvider generates PNGs.
	// Exactly one of each is used; there is no fallback chain.
	TextProvider  string          `mapstructure:"text_provider"`
	ImageProvider string          `mapstructure:"image_provider"`
	Gemini        GeminiConfig    `mapstructure:"gemini"`
	Anthropic     AnthropicConfig `mapstructure:"anthropic"`
	OpenAI        OpenAIConfig    `mapstructure:"openai"`

	// RatePerMinute paces calls per provider. 0 disables pacing.
	RatePerMinute int `mapstructure:"rate_per_minute"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api_key"`
	TextModel  string `mapstructure:"text_model"`
	ImageModel string `mapstructure:"image_model"`
}

type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	ImageModel string `mapstructure:"image_model"`
	BaseURL    string `mapstructure:"base_url"`
}

type ImageConfig struct {
	// Size is the edge length PNGs are normalized to. 0 keeps the backend's output.
	Size int `mapstructure:"size"`
}

// BatchConfig holds the throttling policy applied across ideas.
type BatchConfig struct {
	IdeaCount          int           `mapstructure:"idea_count"`
	MaxConcurrentIdeas int           `mapstructure:"max_concurrent_ideas"`
	IdeasPerMinute     int           `mapstructure:"ideas_per_minute"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

type UIConfig struct {
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	RefreshSeconds int           `mapstructure:"refresh_seconds"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from a YAML file and environment variables.
// A .env file in the working directory is loaded first, so local development
// can keep the API key out of the shell profile.
func Load(configPath string) (*Config, error) {
	// godotenv.Load never overrides variables that are already set.
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults: these apply when neither file nor env provides a value
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.database_path", "./storage/namesmith.db")
	v.SetDefault("storage.export_dir", "./logos")
	v.SetDefault("auth.api_keys", []string{})
	v.SetDefault("auth.admin_keys", []string{})
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("llm.text_provider", ProviderGemini)
	v.SetDefault("llm.image_provider", ProviderGemini)
	v.SetDefault("llm.gemini.text_model", "gemini-2.5-flash")
	v.SetDefault("llm.gemini.image_model", "imagen-3.0-generate-002")
	v.SetDefault("llm.anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("llm.openai.model", "gpt-4o")
	v.SetDefault("llm.openai.image_model", "dall-e-3")
	v.SetDefault("llm.rate_per_minute", 0)
	v.SetDefault("image.size", 512)
	v.SetDefault("batch.idea_count", 4)
	v.SetDefault("batch.max_concurrent_ideas", 1)
	v.SetDefault("batch.ideas_per_minute", 0)
	v.SetDefault("batch.timeout", 5*time.Minute)
	v.SetDefault("ui.session_ttl", 30*time.Minute)
	v.SetDefault("ui.refresh_seconds", 2)
	v.SetDefault("rate_limit.requests_per_second", 0.2)
	v.SetDefault("rate_limit.burst", 3)
	v.SetDefault("log.level", "info")

	// Read from YAML config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Read config file (ignore "not found": defaults + env are enough)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Environment variables override everything.
	// NAMESMITH_ prefix + nested keys: NAMESMITH_SERVER_PORT=9090 → server.port=9090
	v.SetEnvPrefix("NAMESMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys Viper already knows about. API keys have
	// no default, so they are bound explicitly, with the conventional names
	// accepted as aliases.
	bindings := map[string][]string{
		"llm.gemini.api_key":    {"NAMESMITH_LLM_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY"},
		"llm.anthropic.api_key": {"NAMESMITH_LLM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"},
		"llm.openai.api_key":    {"NAMESMITH_LLM_OPENAI_API_KEY", "OPENAI_API_KEY"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	// Unmarshal into our Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks process-wide preconditions. It runs once at startup so a
// missing credential stops the process instead of failing the first batch.
func (c *Config) Validate() error {
	for _, p := range []string{c.LLM.TextProvider, c.LLM.ImageProvider} {
		key, err := c.LLM.apiKey(p)
		if err != nil {
			return err
		}
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: set NAMESMITH_LLM_%s_API_KEY", ErrMissingCredential, strings.ToUpper(p))
		}
	}
	if c.LLM.ImageProvider == ProviderAnthropic {
		return fmt.Errorf("image provider %q does not generate images", c.LLM.ImageProvider)
	}
	if c.Batch.IdeaCount < 1 {
		return fmt.Errorf("batch.idea_count must be at least 1, got %d", c.Batch.IdeaCount)
	}
	if c.Batch.MaxConcurrentIdeas < 1 {
		return fmt.Errorf("batch.max_concurrent_ideas must be at least 1, got %d", c.Batch.MaxConcurrentIdeas)
	}
	return nil
}

func (l LLMConfig) apiKey(provider string) (string, error) {
	switch provider {
	case ProviderGemini:
		return l.Gemini.APIKey, nil
	case ProviderOpenAI:
		return l.OpenAI.APIKey, nil
	case ProviderAnthropic:
		return l.Anthropic.APIKey, nil
	default:
		return "", fmt.Errorf("unknown provider: %q", provider)
	}
}

// Address returns the listen address string like "0.0.0.0:8080".
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
