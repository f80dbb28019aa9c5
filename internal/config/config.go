package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// DeploymentMode controls environment-specific behavior (log verbosity,
// scheduler defaults).
type DeploymentMode string

const (
	ModeLocal DeploymentMode = "local"
	ModeProd  DeploymentMode = "prod"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Minting    MintingConfig    `mapstructure:"minting"`
	Email      EmailConfig      `mapstructure:"email"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type DeploymentConfig struct {
	Mode DeploymentMode `mapstructure:"mode"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// DSN builds the postgres connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// SchedulerConfig holds the production cadence set. Cron expressions use
// the standard five-field format; interval cadences use Go durations.
type SchedulerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Timezone string `mapstructure:"timezone"`

	DailySweepCron        string        `mapstructure:"daily_sweep_cron"`
	ExpirySweepInterval   time.Duration `mapstructure:"expiry_sweep_interval"`
	AutoRenewInterval     time.Duration `mapstructure:"auto_renew_interval"`
	AnalyticsInterval     time.Duration `mapstructure:"analytics_interval"`
	ReminderWindowDays    int           `mapstructure:"reminder_window_days"`
	AutoRenewWindowHours  int           `mapstructure:"auto_renew_window_hours"`
}

type MintingConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	RetryMax int           `mapstructure:"retry_max"`
}

type EmailConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	APIKey      string `mapstructure:"api_key"`
	FromAddress string `mapstructure:"from_address"`
}

type CacheConfig struct {
	Type string `mapstructure:"type"`
}

type LoggingConfig struct {
	Level          types.LogLevel `mapstructure:"level"`
	FluentdEnabled bool           `mapstructure:"fluentd_enabled"`
	FluentdHost    string         `mapstructure:"fluentd_host"`
	FluentdPort    int            `mapstructure:"fluentd_port"`
}

// NewConfig loads configuration from config files and the environment.
// Environment variables use the LOOOP_ prefix with underscores, e.g.
// LOOOP_POSTGRES_HOST.
func NewConfig() (*Configuration, error) {
	// Local development convenience; missing .env is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("looop")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Config file exists but could not be parsed").
				Mark(ierr.ErrValidation)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Configuration could not be decoded").
			Mark(ierr.ErrValidation)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "looop")
	v.SetDefault("postgres.dbname", "looop")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.auto_migrate", true)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.timezone", "UTC")
	// Consolidated daily sweep at an off-peak hour.
	v.SetDefault("scheduler.daily_sweep_cron", "0 2 * * *")
	v.SetDefault("scheduler.expiry_sweep_interval", time.Hour)
	v.SetDefault("scheduler.auto_renew_interval", 6*time.Hour)
	v.SetDefault("scheduler.analytics_interval", 4*time.Hour)
	v.SetDefault("scheduler.reminder_window_days", 7)
	v.SetDefault("scheduler.auto_renew_window_hours", 24)
	v.SetDefault("minting.timeout", 30*time.Second)
	v.SetDefault("minting.retry_max", 3)
	v.SetDefault("email.enabled", false)
	v.SetDefault("cache.type", "inmemory")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
}

// Validate rejects configurations the engine cannot start with.
func (c *Configuration) Validate() error {
	if c.Scheduler.ReminderWindowDays <= 0 {
		return ierr.NewError("scheduler.reminder_window_days must be positive").
			Mark(ierr.ErrValidation)
	}
	if c.Scheduler.AutoRenewWindowHours <= 0 {
		return ierr.NewError("scheduler.auto_renew_window_hours must be positive").
			Mark(ierr.ErrValidation)
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return ierr.WithError(err).
			WithHintf("Unknown scheduler timezone %q", c.Scheduler.Timezone).
			Mark(ierr.ErrValidation)
	}
	if c.Email.Enabled && c.Email.APIKey == "" {
		return ierr.NewError("email.api_key is required when email is enabled").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SchedulerLocation returns the configured timezone, falling back to UTC.
func (c *Configuration) SchedulerLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetDefaultConfig returns a config suitable for tests and early init
// (before the real config is loaded).
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: ModeLocal},
		Scheduler: SchedulerConfig{
			Enabled:              false,
			Timezone:             "UTC",
			DailySweepCron:       "0 2 * * *",
			ExpirySweepInterval:  time.Hour,
			AutoRenewInterval:    6 * time.Hour,
			AnalyticsInterval:    4 * time.Hour,
			ReminderWindowDays:   7,
			AutoRenewWindowHours: 24,
		},
		Cache:   CacheConfig{Type: "inmemory"},
		Logging: LoggingConfig{Level: types.LogLevelInfo},
	}
}
