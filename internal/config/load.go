package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally a config
// file. Environment variables (prefix VISITLY_, e.g. VISITLY_SERVER_PORT)
// take precedence over values from the config file, which in turn override
// the built-in defaults. Returns a populated Config or an error if
// loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("visitly")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/visitly")

	v.SetEnvPrefix("VISITLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults still apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the built-in defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("store.data_dir", "data")

	// Registered empty so AutomaticEnv can see the env-only keys; validation
	// rejects the empty secret.
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_expiry_days", 7)

	v.SetDefault("admin.username", "")
	v.SetDefault("admin.password", "")

	v.SetDefault("economy.visits_per_coin", 1000)
	v.SetDefault("economy.rupee_per_coin", 5.0)
	v.SetDefault("economy.signup_bonus", 10)

	v.SetDefault("visits.api_template", "https://visits-api-yash-ff.vercel.app/visit?uid={uid}&region=IND")
	v.SetDefault("visits.request_timeout_seconds", 15)
	v.SetDefault("visits.poll_interval_seconds", 10)
	v.SetDefault("visits.max_tasks_per_user", 3)
	v.SetDefault("visits.max_total_workers", 120)
}
