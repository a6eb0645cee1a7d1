package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	TargetsFile    string `mapstructure:"targets_file"`
	PublishersFile string `mapstructure:"publishers_file"`

	APIBaseURL            string        `mapstructure:"api_base_url"`
	UserAgent             string        `mapstructure:"user_agent"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	StrictStatus          bool          `mapstructure:"strict_status"`

	PollIntervalSeconds int64         `mapstructure:"poll_interval"`
	PollInterval        time.Duration `mapstructure:"-"`
	PollConcurrency     int           `mapstructure:"poll_concurrency"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "mcsrvstat-poller")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("targets_file", "./configs/targets.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("api_base_url", "https://api.mcsrvstat.us")
	v.SetDefault("user_agent", "mcsrvstat-go/1.0")
	v.SetDefault("request_timeout_seconds", 10)
	v.SetDefault("strict_status", true)
	v.SetDefault("poll_interval", 0) // seconds; 0 runs a single pass
	v.SetDefault("poll_concurrency", 4)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, fmt.Errorf("invalid api_base_url (must not be empty)")
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.PollIntervalSeconds < 0 {
		return nil, fmt.Errorf("invalid poll_interval (must be zero or positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	if cfg.PollConcurrency <= 0 {
		return nil, fmt.Errorf("invalid poll_concurrency (must be positive)")
	}

	return &cfg, nil
}
