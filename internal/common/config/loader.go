// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Pipeline stage names used as keys of Config.Stages.
const (
	StageContent  = "content"
	StageInsight  = "insight"
	StageGraphics = "graphics"
	StagePDF      = "pdf"
	StageEmail    = "email"
)

var defaultStageTimeouts = map[string]int{
	StageContent:  60000,
	StageInsight:  5000,
	StageGraphics: 45000,
	StagePDF:      45000,
	StageEmail:    30000,
}

// Load reads .env, configs/config.yaml and config.<env>.yaml, then applies env overrides.
// Missing credentials never fail loading: the pipeline degrades at request time instead.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v, env)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v, os.Getenv("APP_ENVIRONMENT"))
}

func finish(v *viper.Viper, env string) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

func envString(target *string, names ...string) {
	if *target != "" {
		return
	}
	for _, name := range names {
		if val := os.Getenv(name); val != "" {
			*target = val
			return
		}
	}
}

func envBool(target *bool, name string) {
	if val := os.Getenv(name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*target = b
		}
	}
}

// overrideEmptyConfig fills credentials and endpoints from the well-known environment names.
func overrideEmptyConfig(cfg *Config) {
	envString(&cfg.APIs.OpenAI.APIKey, "OPENAI_API_KEY")
	envString(&cfg.APIs.OpenAI.Model, "OPENAI_MODEL")
	envString(&cfg.APIs.OpenAI.BaseURL, "OPENAI_BASE_URL")

	envString(&cfg.Integrations.Email.Provider, "EMAIL_PROVIDER")
	envString(&cfg.Integrations.Email.FromEmail, "EMAIL_FROM_ADDRESS")
	envString(&cfg.Integrations.Email.FromName, "EMAIL_FROM_NAME")
	envString(&cfg.Integrations.Email.DemoURL, "DEMO_BASE_URL")
	envBool(&cfg.Integrations.Email.TestMode, "EMAIL_TEST_MODE")

	envString(&cfg.Integrations.Mailgun.APIKey, "MAILGUN_API_KEY")
	envString(&cfg.Integrations.Mailgun.Domain, "MAILGUN_DOMAIN")

	envString(&cfg.Integrations.AWS.Region, "AWS_REGION")
	envBool(&cfg.Integrations.AWS.SES.Enabled, "SES_ENABLED")
	envString(&cfg.Integrations.AWS.SNS.LeadTopicARN, "LEAD_ALERT_TOPIC_ARN")
	if cfg.Integrations.AWS.SNS.LeadTopicARN != "" {
		cfg.Integrations.AWS.SNS.Enabled = true
	}

	envString(&cfg.Database.Postgres.URL, "DATABASE_URL")
	envString(&cfg.Database.Postgres.Host, "DB_HOST")
	envString(&cfg.Database.Postgres.User, "DB_USER")
	envString(&cfg.Database.Postgres.Password, "DB_PASSWORD")
	envString(&cfg.Database.Redis.Address, "REDIS_ADDRESS")

	envString(&cfg.Renderer.BrowserBin, "ROD_BROWSER_BIN")
	envBool(&cfg.Renderer.NoSandbox, "ROD_NO_SANDBOX")
	envBool(&cfg.RateLimit.Disabled, "RATE_LIMIT_DISABLED")

	if len(cfg.Server.AllowedOrigins) == 0 {
		if val := os.Getenv("CORS_ORIGINS"); val != "" {
			for _, origin := range strings.Split(val, ",") {
				if origin = strings.TrimSpace(origin); origin != "" {
					cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, origin)
				}
			}
		}
	}
	if cfg.Server.Port == 0 {
		if val := os.Getenv("PORT"); val != "" {
			if port, err := strconv.Atoi(val); err == nil {
				cfg.Server.Port = port
			}
		}
	}

	envString(&cfg.Logging.Level, "LOG_LEVEL")
	envString(&cfg.Logging.Format, "LOG_FORMAT")
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "demo-generator"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3001
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 180000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.CacheTTL == 0 {
		cfg.Database.Redis.CacheTTL = 3600
	}

	if cfg.APIs.OpenAI.Model == "" {
		cfg.APIs.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.APIs.OpenAI.MaxTokens == 0 {
		cfg.APIs.OpenAI.MaxTokens = 2000
	}
	if cfg.APIs.OpenAI.Temperature == 0 {
		cfg.APIs.OpenAI.Temperature = 0.8
	}
	if cfg.APIs.OpenAI.MaxRetries == 0 {
		cfg.APIs.OpenAI.MaxRetries = 1
	}
	if cfg.APIs.OpenAI.Timeout == 0 {
		cfg.APIs.OpenAI.Timeout = 60000
	}

	if cfg.Integrations.Email.Provider == "" {
		cfg.Integrations.Email.Provider = "mailgun"
	}
	if cfg.Integrations.Email.FromEmail == "" {
		cfg.Integrations.Email.FromEmail = "demos@example.com"
	}
	if cfg.Integrations.Email.FromName == "" {
		cfg.Integrations.Email.FromName = "Demo Studio"
	}
	if cfg.Integrations.AWS.Region == "" {
		cfg.Integrations.AWS.Region = "us-east-1"
	}

	if cfg.Renderer.PoolSize == 0 {
		cfg.Renderer.PoolSize = 3
	}
	if cfg.Renderer.PageTimeout == 0 {
		cfg.Renderer.PageTimeout = 30000
	}

	if cfg.Demo.TokenRatePer1K == 0 {
		cfg.Demo.TokenRatePer1K = 0.03
	}
	if cfg.Demo.EmailFlatCost == 0 {
		cfg.Demo.EmailFlatCost = 0.001
	}
	if cfg.Demo.PerGraphicCost == 0 {
		cfg.Demo.PerGraphicCost = 0.005
	}
	if cfg.Demo.MaxGraphics == 0 {
		cfg.Demo.MaxGraphics = 3
	}
	if cfg.Demo.DefaultTheme == "" {
		cfg.Demo.DefaultTheme = "professional"
	}

	if cfg.Stages == nil {
		cfg.Stages = make(map[string]StageConfig, len(defaultStageTimeouts))
	}
	for name, timeout := range defaultStageTimeouts {
		stage := cfg.Stages[name]
		if stage.Timeout == 0 {
			stage.Timeout = timeout
		}
		cfg.Stages[name] = stage
	}

	if cfg.RateLimit.RequestsPerMinute == 0 {
		cfg.RateLimit.RequestsPerMinute = 5
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 3
	}
	if cfg.RateLimit.IdleTTL == 0 {
		cfg.RateLimit.IdleTTL = 600
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig rejects values that are present but unusable.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	switch strings.ToLower(cfg.Integrations.Email.Provider) {
	case "ses", "mailgun":
	default:
		return fmt.Errorf("integrations.email.provider must be one of ses, mailgun")
	}
	if cfg.Renderer.PoolSize < 1 {
		return fmt.Errorf("renderer.pool_size must be positive")
	}
	if cfg.Demo.MaxGraphics < 0 {
		return fmt.Errorf("demo.max_graphics must not be negative")
	}
	if cfg.Demo.TokenRatePer1K < 0 || cfg.Demo.EmailFlatCost < 0 || cfg.Demo.PerGraphicCost < 0 {
		return fmt.Errorf("demo cost rates must not be negative")
	}
	if !cfg.RateLimit.Disabled && cfg.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be positive")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetStageTimeout returns the timeout for a pipeline stage, falling back to the built-in default.
func GetStageTimeout(cfg *Config, stage string) time.Duration {
	if cfg != nil {
		if s, ok := cfg.Stages[stage]; ok && s.Timeout > 0 {
			return GetDuration(s.Timeout)
		}
	}
	if ms, ok := defaultStageTimeouts[stage]; ok {
		return GetDuration(ms)
	}
	return 30 * time.Second
}
