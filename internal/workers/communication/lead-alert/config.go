package leadalert

import "demo-generator/internal/common/config"

type Config struct {
	Enabled  bool
	TopicARN string
}

func ConfigFrom(cfg *config.Config) *Config {
	sns := cfg.Integrations.AWS.SNS
	return &Config{
		Enabled:  sns.Enabled && sns.LeadTopicARN != "",
		TopicARN: sns.LeadTopicARN,
	}
}
