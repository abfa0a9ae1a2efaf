// Package config reads server settings from environment variables, with an
// optional .env file, via Viper. Environment variables win over file values.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the HTTP server.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
	LogLevel     string
}

// Load reads configuration from the environment. Expected names:
// EINVOICE_ADDRESS, EINVOICE_READ_TIMEOUT, EINVOICE_WRITE_TIMEOUT,
// EINVOICE_DEBUG, EINVOICE_LOG_LEVEL.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // file is optional

	v.SetEnvPrefix("EINVOICE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("address", ":8080")
	v.SetDefault("read_timeout", 30*time.Second)
	v.SetDefault("write_timeout", time.Minute)
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "info")

	cfg := &Config{
		Address:      v.GetString("address"),
		ReadTimeout:  v.GetDuration("read_timeout"),
		WriteTimeout: v.GetDuration("write_timeout"),
		Debug:        v.GetBool("debug"),
		LogLevel:     v.GetString("log_level"),
	}

	return cfg, nil
}
