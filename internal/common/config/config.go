// internal/common/config/config.go
package config

import (
	"fmt"
	"strings"
)

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig              `mapstructure:"app"`
	Server       ServerConfig           `mapstructure:"server"`
	Database     DatabaseConfig         `mapstructure:"database"`
	APIs         APIsConfig             `mapstructure:"apis"`
	Integrations IntegrationConfig      `mapstructure:"integrations"`
	Renderer     RendererConfig         `mapstructure:"renderer"`
	Demo         DemoConfig             `mapstructure:"demo"`
	Stages       map[string]StageConfig `mapstructure:"stages"`
	RateLimit    RateLimitConfig        `mapstructure:"rate_limit"`
	Logging      LoggingConfig          `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	URL            string `mapstructure:"url"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// Configured reports whether enough is set to attempt a connection.
func (p PostgresConfig) Configured() bool {
	return p.URL != "" || (p.Host != "" && p.Database != "")
}

// GetDSN returns the PostgreSQL connection string. A full URL wins over discrete fields.
func (p PostgresConfig) GetDSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	OpenAI struct {
		APIKey      string  `mapstructure:"api_key"`
		BaseURL     string  `mapstructure:"base_url"`
		Model       string  `mapstructure:"model"`
		MaxTokens   int     `mapstructure:"max_tokens"`
		Temperature float64 `mapstructure:"temperature"`
		MaxRetries  int     `mapstructure:"max_retries"`
		Timeout     int     `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"openai"`
}

// IntegrationConfig holds settings for email delivery and lead alerts.
type IntegrationConfig struct {
	Email struct {
		Provider  string `mapstructure:"provider"` // ses | mailgun
		FromEmail string `mapstructure:"from_email"`
		FromName  string `mapstructure:"from_name"`
		ReplyTo   string `mapstructure:"reply_to"`
		TestMode  bool   `mapstructure:"test_mode"`
		DemoURL   string `mapstructure:"demo_url"`
	} `mapstructure:"email"`

	Mailgun struct {
		APIKey  string `mapstructure:"api_key"`
		Domain  string `mapstructure:"domain"`
		APIBase string `mapstructure:"api_base"`
	} `mapstructure:"mailgun"`

	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled bool `mapstructure:"enabled"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled      bool   `mapstructure:"enabled"`
			LeadTopicARN string `mapstructure:"lead_topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// EmailConfigured reports whether any delivery credential is present.
func (i IntegrationConfig) EmailConfigured() bool {
	switch strings.ToLower(i.Email.Provider) {
	case "mailgun":
		return i.Mailgun.APIKey != "" && i.Mailgun.Domain != ""
	case "ses":
		return i.AWS.SES.Enabled && i.AWS.Region != ""
	default:
		return false
	}
}

// RendererConfig configures the headless browser pool.
type RendererConfig struct {
	PoolSize    int    `mapstructure:"pool_size"`
	BrowserBin  string `mapstructure:"browser_bin"`
	NoSandbox   bool   `mapstructure:"no_sandbox"`
	PageTimeout int    `mapstructure:"page_timeout"` // milliseconds
}

// DemoConfig holds the cost model and graphics limits of the pipeline.
type DemoConfig struct {
	TokenRatePer1K float64 `mapstructure:"token_rate_per_1k"`
	EmailFlatCost  float64 `mapstructure:"email_flat_cost"`
	PerGraphicCost float64 `mapstructure:"per_graphic_cost"`
	MaxGraphics    int     `mapstructure:"max_graphics"`
	DefaultTheme   string  `mapstructure:"default_theme"`
}

// StageConfig holds per-stage settings of the demo pipeline.
type StageConfig struct {
	Timeout int `mapstructure:"timeout"` // milliseconds
}

// RateLimitConfig bounds how many demos one client can request.
type RateLimitConfig struct {
	Disabled          bool    `mapstructure:"disabled"`
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"`
	Burst             int     `mapstructure:"burst"`
	IdleTTL           int     `mapstructure:"idle_ttl"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
