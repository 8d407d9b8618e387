// Package config loads and validates application configuration.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	Store   StoreConfig   `mapstructure:"store"   validate:"required"`
	Auth    AuthConfig    `mapstructure:"auth"    validate:"required"`
	Economy EconomyConfig `mapstructure:"economy" validate:"required"`
	Visits  VisitsConfig  `mapstructure:"visits"  validate:"required"`
	Admin   AdminConfig   `mapstructure:"admin"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StoreConfig locates the durable JSON-file store.
type StoreConfig struct {
	DataDir string `mapstructure:"data_dir" validate:"required"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret       string `mapstructure:"jwt_secret"        validate:"required,min=32"`
	TokenExpiryDays int    `mapstructure:"token_expiry_days" validate:"required,gte=1"`
}

// EconomyConfig holds the coin-economy constants.
type EconomyConfig struct {
	VisitsPerCoin int     `mapstructure:"visits_per_coin" validate:"required,gte=1"`
	RupeePerCoin  float64 `mapstructure:"rupee_per_coin"  validate:"required,gt=0"`
	SignupBonus   int     `mapstructure:"signup_bonus"    validate:"gte=0"`
}

// VisitsConfig controls the poll workers and the external counter endpoint.
// PollIntervalSeconds has a hard floor of 1 second.
type VisitsConfig struct {
	APITemplate           string `mapstructure:"api_template"            validate:"required,contains={uid}"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"required,gte=1"`
	PollIntervalSeconds   int    `mapstructure:"poll_interval_seconds"   validate:"required,gte=1"`
	MaxTasksPerUser       int    `mapstructure:"max_tasks_per_user"      validate:"required,gte=1"`
	MaxTotalWorkers       int    `mapstructure:"max_total_workers"       validate:"required,gte=1"`
}

// AdminConfig seeds the bootstrap admin account. When the username is empty
// no admin is seeded.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password" validate:"required_with=Username"`
}
