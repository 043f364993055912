package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Provider is the read-only view of the configuration handed to the server and modules.
type Provider interface {
	GetServerAddr() string
	GetAppBaseURL() string
	GetSessionSecret() string
	GetAnalysisBaseURL() string
	GetAnalysisTimeout() time.Duration
	GetMaxUploadBytes() int64
	GetAllowedImageTypes() []string
	GetDraftTTL() time.Duration
	GetChatPanelTTL() time.Duration
	GetReportTTL() time.Duration
	GetReportRateLimit() int
	GetLogFormat() string
	GetLogLevel() string
}

// Config holds all configuration for the application.
type Config struct {
	ServerAddr    string `env:"SERVER_ADDR" envDefault:":8080"`
	AppBaseURL    string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	SessionSecret string `env:"SESSION_SECRET"`

	AnalysisBaseURL string `env:"ANALYSIS_BASE_URL" envDefault:"http://127.0.0.1:5000"`
	// Zero means outbound calls carry no deadline of their own.
	AnalysisTimeout time.Duration `env:"ANALYSIS_TIMEOUT" envDefault:"0s"`

	MaxUploadBytes    int64    `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	AllowedImageTypes []string `env:"ALLOWED_IMAGE_TYPES" envSeparator:"," envDefault:"image/jpeg,image/png,image/webp,image/gif"`

	DraftTTL        time.Duration `env:"DRAFT_TTL" envDefault:"1h"`
	ChatPanelTTL    time.Duration `env:"CHAT_PANEL_TTL" envDefault:"2h"`
	ReportTTL       time.Duration `env:"REPORT_TTL" envDefault:"5m"`
	ReportRateLimit int           `env:"REPORT_RATE_LIMIT" envDefault:"10"`

	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"debug"`
}

// New loads configuration from a .env file (if present) and the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv parses the current environment without touching .env files.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < 16 {
		return fmt.Errorf("SESSION_SECRET must be set to at least 16 characters")
	}
	if c.AnalysisBaseURL == "" {
		return fmt.Errorf("ANALYSIS_BASE_URL must not be empty")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.AnalysisTimeout < 0 {
		return fmt.Errorf("ANALYSIS_TIMEOUT must not be negative")
	}
	c.AnalysisBaseURL = strings.TrimRight(c.AnalysisBaseURL, "/")
	for i, t := range c.AllowedImageTypes {
		c.AllowedImageTypes[i] = strings.TrimSpace(t)
	}
	return nil
}

func (c *Config) GetServerAddr() string             { return c.ServerAddr }
func (c *Config) GetAppBaseURL() string             { return c.AppBaseURL }
func (c *Config) GetSessionSecret() string          { return c.SessionSecret }
func (c *Config) GetAnalysisBaseURL() string        { return c.AnalysisBaseURL }
func (c *Config) GetAnalysisTimeout() time.Duration { return c.AnalysisTimeout }
func (c *Config) GetMaxUploadBytes() int64          { return c.MaxUploadBytes }
func (c *Config) GetAllowedImageTypes() []string    { return c.AllowedImageTypes }
func (c *Config) GetDraftTTL() time.Duration        { return c.DraftTTL }
func (c *Config) GetChatPanelTTL() time.Duration    { return c.ChatPanelTTL }
func (c *Config) GetReportTTL() time.Duration       { return c.ReportTTL }
func (c *Config) GetReportRateLimit() int           { return c.ReportRateLimit }
func (c *Config) GetLogFormat() string              { return c.LogFormat }
func (c *Config) GetLogLevel() string               { return c.LogLevel }
