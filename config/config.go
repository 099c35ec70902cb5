package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress      string   `mapstructure:"SERVER_ADDRESS"` // e.g., ":8080"
	AppEnv             string   `mapstructure:"APP_ENV"`        // "production" switches gin to release mode
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	MaxUploadMB        int64    `mapstructure:"MAX_UPLOAD_MB"`
	SessionCapacity    int      `mapstructure:"SESSION_CAPACITY"`

	// AI Configuration
	ModelProvider string `mapstructure:"MODEL_PROVIDER"` // "gemini" or "openai"
	GeminiAPIKey  string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel   string `mapstructure:"GEMINI_MODEL"`
	GeminiBaseURL string `mapstructure:"GEMINI_BASE_URL"`
	OpenAIKey     string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel   string `mapstructure:"OPENAI_MODEL"`
	OpenAIBaseURL string `mapstructure:"OPENAI_BASE_URL"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":       ":8080",
	"APP_ENV":              "development",
	"CORS_ALLOWED_ORIGINS": []string{"*"},
	"MAX_UPLOAD_MB":        32,
	"SESSION_CAPACITY":     1024,
	"MODEL_PROVIDER":       "gemini",
	"GEMINI_API_KEY":       "",
	"GEMINI_MODEL":         "gemini-2.5-flash",
	"GEMINI_BASE_URL":      "",
	"OPENAI_API_KEY":       "",
	"OPENAI_MODEL":         "gpt-4o",
	"OPENAI_BASE_URL":      "",
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)     // Path to look for the config file in
	v.SetConfigName("config") // Name of config file (without extension)
	v.SetConfigType("yaml")

	// Unmarshal only sees keys viper knows about, so every key gets a default.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	if err := v.BindEnv("GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return Config{}, fmt.Errorf("binding GEMINI_API_KEY: %w", err)
	}

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Config file ('config.yaml') not found in specified path, relying solely on environment variables.")
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Printf("Using configuration file: %s", v.ConfigFileUsed())
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.CORSAllowedOrigins = splitOrigins(config.CORSAllowedOrigins)
	config.ModelProvider = strings.ToLower(strings.TrimSpace(config.ModelProvider))

	if config.MaxUploadMB <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", config.MaxUploadMB)
	}
	if config.SessionCapacity <= 0 {
		return Config{}, fmt.Errorf("SESSION_CAPACITY must be positive, got %d", config.SessionCapacity)
	}
	switch config.ModelProvider {
	case "gemini", "openai":
	default:
		return Config{}, fmt.Errorf("MODEL_PROVIDER must be gemini or openai, got %q", config.ModelProvider)
	}

	// A missing key is not fatal; each generation attempt reports it instead.
	if config.APIKey() == "" {
		log.Printf("WARN: no API key set for model provider %q. Generation requests will fail until one is configured.", config.ModelProvider)
	}

	return
}

// APIKey returns the credential for the selected provider.
func (c Config) APIKey() string {
	if c.ModelProvider == "openai" {
		return c.OpenAIKey
	}
	return c.GeminiAPIKey
}

// Model returns the model name for the selected provider.
func (c Config) Model() string {
	if c.ModelProvider == "openai" {
		return c.OpenAIModel
	}
	return c.GeminiModel
}

// BaseURL returns the endpoint override for the selected provider, if any.
func (c Config) BaseURL() string {
	if c.ModelProvider == "openai" {
		return c.OpenAIBaseURL
	}
	return c.GeminiBaseURL
}

// Env values arrive as one comma separated string.
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, origin := range strings.Split(item, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}
