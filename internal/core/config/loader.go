package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	DefaultRootFolder = "Okarthel"
	DefaultTitle      = "Okarthel Lore Glossary"
	DefaultModel      = "gemini-1.5-flash"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a configuration with every default applied.
// Used when no config file exists.
func Default() *AppConfig {
	var cfg AppConfig
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Glossary.RootFolder == "" {
		cfg.Glossary.RootFolder = DefaultRootFolder
	}
	if cfg.Glossary.Title == "" {
		cfg.Glossary.Title = DefaultTitle
	}

	if cfg.Google.CredentialsFile == "" {
		cfg.Google.CredentialsFile = "credentials.json"
	}
	if cfg.Google.TokenFile == "" {
		cfg.Google.TokenFile = "token.json"
	}

	if cfg.Generation.Model == "" {
		cfg.Generation.Model = DefaultModel
	}
	if cfg.Generation.Backend == "" {
		cfg.Generation.Backend = "gemini"
	}
	if cfg.Generation.APIKey == "" {
		cfg.Generation.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = 10
	}
	if cfg.Retry.InitialDelay == 0 {
		cfg.Retry.InitialDelay = time.Second
	}
	if cfg.Retry.BackoffFactor == 0 {
		cfg.Retry.BackoffFactor = 2
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
