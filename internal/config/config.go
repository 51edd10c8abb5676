package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendREST = "rest"
	BackendSDK  = "sdk"
)

type Config struct {
	// Server
	Host     string
	Port     string
	Env      string
	LogLevel string

	// Gemini AI
	GeminiAPIKey      string
	GeminiBaseURL     string
	GeminiModel       string
	GeminiBackend     string
	GeminiServiceName string
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Load resolves configuration from the environment. A .env file in the
// working directory is loaded first if present, and CONFIG_FILE may name a
// YAML file whose values sit between the defaults and the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	v := newViper()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Host:              v.GetString("host"),
		Port:              v.GetString("port"),
		Env:               v.GetString("env"),
		LogLevel:          v.GetString("log_level"),
		GeminiAPIKey:      v.GetString("gemini_api_key"),
		GeminiBaseURL:     v.GetString("gemini_base_url"),
		GeminiModel:       v.GetString("gemini_model"),
		GeminiBackend:     strings.ToLower(v.GetString("gemini_backend")),
		GeminiServiceName: v.GetString("gemini_service_name"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini_model", "gemini-1.5-flash-latest")
	v.SetDefault("gemini_backend", BackendREST)
	v.SetDefault("gemini_service_name", "Gemini API")
	v.SetDefault("config_file", "")
	v.AutomaticEnv()
	return v
}

func (c *Config) validate() error {
	if c.GeminiAPIKey == "" {
		return errors.New("required environment variable GEMINI_API_KEY is not set")
	}
	switch c.GeminiBackend {
	case BackendREST, BackendSDK:
	default:
		return fmt.Errorf("unknown GEMINI_BACKEND %q (want %q or %q)", c.GeminiBackend, BackendREST, BackendSDK)
	}
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	return nil
}
