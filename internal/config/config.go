package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode                  string `mapstructure:"mode"`
	Port                  int    `mapstructure:"port"`
	DatabasePath          string `mapstructure:"database_path"`
	JWTSecret             string `mapstructure:"jwt_secret"`
	CookieSecret          string `mapstructure:"cookie_secret"`
	ReadLimit             int64  `mapstructure:"read_limit"`
	FeedbackRateLimit     int    `mapstructure:"feedback_rate_limit"`
	FeedbackRateWindowSec int    `mapstructure:"feedback_rate_window_sec"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("database_path", "formiqa.db")
	v.SetDefault("jwt_secret", "change-me")
	v.SetDefault("cookie_secret", "change-me-too")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("feedback_rate_limit", 10)
	v.SetDefault("feedback_rate_window_sec", 60)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("config loaded")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
