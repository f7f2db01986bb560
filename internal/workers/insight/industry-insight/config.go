package industryinsight

import (
	"time"

	"demo-generator/internal/common/config"
)

type Config struct {
	QueryTimeout time.Duration
	CacheTTL     time.Duration
	CachePrefix  string
}

func DefaultConfig() *Config {
	return &Config{
		QueryTimeout: 3 * time.Second,
		CacheTTL:     10 * time.Minute,
		CachePrefix:  "insights",
	}
}

// ConfigFrom maps the application config onto provider settings.
func ConfigFrom(cfg *config.Config) *Config {
	c := DefaultConfig()
	if cfg.Database.Redis.CacheTTL > 0 {
		c.CacheTTL = time.Duration(cfg.Database.Redis.CacheTTL) * time.Second
	}
	if t := config.GetStageTimeout(cfg, config.StageInsight); t > 0 && t < c.QueryTimeout {
		c.QueryTimeout = t
	}
	return c
}
