// Package config loads the staffing calculator's settings from defaults,
// an optional staffing.yaml, a .env file and STAFFING_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`

	// Scenario axes as comma-separated text.
	WaitingTimes        string `mapstructure:"waiting_times"`
	Shrinkages          string `mapstructure:"shrinkages"`
	MaxOccupancies      string `mapstructure:"max_occupancies"`
	HandlingTimes       string `mapstructure:"handling_times"`
	ServiceLevelTargets string `mapstructure:"service_level_targets"`

	WorkingHoursPerDay float64 `mapstructure:"working_hours_per_day"`
	WorkingDaysPerWeek float64 `mapstructure:"working_days_per_week"`

	Workers int    `mapstructure:"workers"`
	Format  string `mapstructure:"format"`

	MetricsAddr string `mapstructure:"metrics_addr"`
	PushURL     string `mapstructure:"push_url"`
}

// ValidFormats are the supported output formats.
var ValidFormats = map[string]bool{"text": true, "json": true, "csv": true}

// Load reads configuration. Missing .env and staffing.yaml files are not errors.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("staffing")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("STAFFING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("waiting_times", "10,20,30")
	v.SetDefault("shrinkages", "20,30,40")
	v.SetDefault("max_occupancies", "70,80,90")
	v.SetDefault("handling_times", "300,400,500")
	v.SetDefault("service_level_targets", "80,85,90")
	v.SetDefault("working_hours_per_day", 8.0)
	v.SetDefault("working_days_per_week", 5.0)
	v.SetDefault("workers", 1)
	v.SetDefault("format", "text")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("push_url", "")
}

// Validate checks the ranges the calculator accepts.
func (c *Config) Validate() error {
	if c.WorkingHoursPerDay < 1 || c.WorkingHoursPerDay > 24 {
		return fmt.Errorf("working hours per day must be between 1 and 24 (got: %v)", c.WorkingHoursPerDay)
	}
	if c.WorkingDaysPerWeek < 1 || c.WorkingDaysPerWeek > 7 {
		return fmt.Errorf("working days per week must be between 1 and 7 (got: %v)", c.WorkingDaysPerWeek)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got: %d)", c.Workers)
	}
	if !ValidFormats[c.Format] {
		return fmt.Errorf("format must be one of: text, json, csv (got: %s)", c.Format)
	}
	return nil
}
