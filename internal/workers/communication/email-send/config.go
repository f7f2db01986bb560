package emailsend

import (
	"fmt"
	"strings"
	"time"

	"demo-generator/internal/common/config"
)

const (
	ProviderSES     = "ses"
	ProviderMailgun = "mailgun"
)

type Config struct {
	Provider       string        `mapstructure:"provider"`
	FromEmail      string        `mapstructure:"from_email"`
	FromName       string        `mapstructure:"from_name"`
	ReplyTo        string        `mapstructure:"reply_to"`
	TestMode       bool          `mapstructure:"test_mode"`
	DemoURL        string        `mapstructure:"demo_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MailgunAPIKey  string        `mapstructure:"mailgun_api_key"`
	MailgunDomain  string        `mapstructure:"mailgun_domain"`
	MailgunAPIBase string        `mapstructure:"mailgun_api_base"`
	AWSRegion      string        `mapstructure:"aws_region"`
	SESEnabled     bool          `mapstructure:"ses_enabled"`
}

func DefaultConfig() *Config {
	return &Config{
		Provider:  ProviderMailgun,
		FromEmail: "demo@example.com",
		FromName:  "Social Media Demo",
		Timeout:   30 * time.Second,
	}
}

// ConfigFrom maps the application config onto notifier settings.
func ConfigFrom(cfg *config.Config) *Config {
	c := DefaultConfig()
	in := cfg.Integrations
	if in.Email.Provider != "" {
		c.Provider = strings.ToLower(in.Email.Provider)
	}
	if in.Email.FromEmail != "" {
		c.FromEmail = in.Email.FromEmail
	}
	if in.Email.FromName != "" {
		c.FromName = in.Email.FromName
	}
	c.ReplyTo = in.Email.ReplyTo
	c.TestMode = in.Email.TestMode
	c.DemoURL = in.Email.DemoURL
	c.MailgunAPIKey = in.Mailgun.APIKey
	c.MailgunDomain = in.Mailgun.Domain
	c.MailgunAPIBase = in.Mailgun.APIBase
	c.AWSRegion = in.AWS.Region
	c.SESEnabled = in.AWS.SES.Enabled
	if t := config.GetStageTimeout(cfg, config.StageEmail); t > 0 {
		c.Timeout = t
	}
	return c
}

// Configured reports whether the selected provider has its credentials.
func (c *Config) Configured() bool {
	switch c.Provider {
	case ProviderMailgun:
		return c.MailgunAPIKey != "" && c.MailgunDomain != ""
	case ProviderSES:
		return c.SESEnabled && c.AWSRegion != ""
	default:
		return false
	}
}

func (c *Config) Validate() error {
	if c.Provider != ProviderSES && c.Provider != ProviderMailgun {
		return fmt.Errorf("provider must be %q or %q", ProviderSES, ProviderMailgun)
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from_email is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
