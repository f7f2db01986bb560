package generateposts

import (
	"fmt"
	"time"

	"demo-generator/internal/common/config"
)

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	MaxRetries  int
	Timeout     time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Model:       "gpt-4o-mini",
		MaxTokens:   2000,
		Temperature: 0.8,
		MaxRetries:  1,
		Timeout:     60 * time.Second,
	}
}

// ConfigFrom maps the application config onto the generator settings.
func ConfigFrom(cfg *config.Config) *Config {
	c := DefaultConfig()
	oa := cfg.APIs.OpenAI
	c.APIKey = oa.APIKey
	c.BaseURL = oa.BaseURL
	if oa.Model != "" {
		c.Model = oa.Model
	}
	if oa.MaxTokens > 0 {
		c.MaxTokens = oa.MaxTokens
	}
	if oa.Temperature > 0 {
		c.Temperature = float32(oa.Temperature)
	}
	if oa.MaxRetries >= 0 {
		c.MaxRetries = oa.MaxRetries
	}
	if oa.Timeout > 0 {
		c.Timeout = config.GetDuration(oa.Timeout)
	}
	return c
}

// Validate checks settings that would make every call fail. A missing API key is not
// a config error here: it is reported per call so the service can still start.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
