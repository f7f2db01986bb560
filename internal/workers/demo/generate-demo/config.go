package generatedemo

import (
	"fmt"
	"time"

	"demo-generator/internal/common/browser"
	"demo-generator/internal/common/config"
)

type Config struct {
	TokenRatePer1K float64
	EmailFlatCost  float64
	PerGraphicCost float64
	MaxGraphics    int
	PoolSize       int
	DefaultTheme   string
	StageTimeouts  map[string]time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		TokenRatePer1K: 0.03,
		EmailFlatCost:  0.001,
		PerGraphicCost: 0.005,
		MaxGraphics:    3,
		PoolSize:       browser.DefaultPoolSize,
		DefaultTheme:   "professional",
		StageTimeouts: map[string]time.Duration{
			config.StageContent:  config.GetStageTimeout(nil, config.StageContent),
			config.StageInsight:  config.GetStageTimeout(nil, config.StageInsight),
			config.StageGraphics: config.GetStageTimeout(nil, config.StageGraphics),
			config.StagePDF:      config.GetStageTimeout(nil, config.StagePDF),
			config.StageEmail:    config.GetStageTimeout(nil, config.StageEmail),
		},
	}
}

// ConfigFrom maps the cost model, renderer size and stage timeouts from the application config.
func ConfigFrom(cfg *config.Config) *Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	c.TokenRatePer1K = cfg.Demo.TokenRatePer1K
	c.EmailFlatCost = cfg.Demo.EmailFlatCost
	c.PerGraphicCost = cfg.Demo.PerGraphicCost
	c.MaxGraphics = cfg.Demo.MaxGraphics
	if cfg.Demo.DefaultTheme != "" {
		c.DefaultTheme = cfg.Demo.DefaultTheme
	}
	if cfg.Renderer.PoolSize > 0 {
		c.PoolSize = cfg.Renderer.PoolSize
	}
	for stage := range c.StageTimeouts {
		c.StageTimeouts[stage] = config.GetStageTimeout(cfg, stage)
	}
	return c
}

// Timeout returns the deadline budget of stage. Unknown stages get 30s.
func (c *Config) Timeout(stage string) time.Duration {
	if d, ok := c.StageTimeouts[stage]; ok && d > 0 {
		return d
	}
	return config.GetStageTimeout(nil, stage)
}

func (c *Config) Validate() error {
	if c.TokenRatePer1K < 0 || c.EmailFlatCost < 0 || c.PerGraphicCost < 0 {
		return fmt.Errorf("cost rates must not be negative")
	}
	if c.MaxGraphics < 0 {
		return fmt.Errorf("max_graphics must not be negative")
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("pool_size must be positive")
	}
	return nil
}
