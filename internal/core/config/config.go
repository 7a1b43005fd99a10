package config

import (
	"time"

	redisclient "github.com/vietddude/glossary/internal/infra/redis"
	"github.com/vietddude/glossary/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Glossary   GlossaryConfig     `yaml:"glossary"`
	Google     GoogleConfig       `yaml:"google"`
	Generation GenerationConfig   `yaml:"generation"`
	Retry      RetryConfig        `yaml:"retry"`
	Server     ServerConfig       `yaml:"server"`
	Redis      redisclient.Config `yaml:"redis"`
	Logging    LoggingConfig      `yaml:"logging"`
	Database   postgres.Config    `yaml:"database"`
	History    HistoryConfig      `yaml:"history"`
}

// GlossaryConfig names the folder to traverse and the document to produce.
type GlossaryConfig struct {
	RootFolder string `yaml:"root_folder"`
	Title      string `yaml:"title"`
}

// GoogleConfig holds OAuth client settings for Drive and Docs.
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
}

// GenerationConfig holds text generation settings.
type GenerationConfig struct {
	Model          string  `yaml:"model"`
	APIKey         string  `yaml:"api_key"`
	Backend        string  `yaml:"backend"` // gemini, vertex
	Project        string  `yaml:"project"`
	Location       string  `yaml:"location"`
	Temperature    float32 `yaml:"temperature"`
	MaxSourceChars int     `yaml:"max_source_chars"` // 0 = unlimited
	Mock           bool    `yaml:"mock"`
}

// RetryConfig holds the back-off policy shared by every remote call.
type RetryConfig struct {
	MaxAttempts   int           `yaml:"max_attempts"`
	InitialDelay  time.Duration `yaml:"initial_delay"`
	BackoffFactor float64       `yaml:"backoff_factor"`
}

// ServerConfig holds the optional health/metrics HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"` // 0 = disabled
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// HistoryConfig controls run history retention.
type HistoryConfig struct {
	Retention time.Duration `yaml:"retention"` // 0 = keep forever
}
