// Package config loads contentkit configuration from contentkit.yml and
// environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the contentkit configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	CORS         CORSConfig         `mapstructure:"cors"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Provisioning ProvisioningConfig `mapstructure:"provisioning"`
	Log          LogConfig          `mapstructure:"log"`
}

// ServerConfig configures the query API server.
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	BasePath string `mapstructure:"base_path"`
}

// Address returns the listen address.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CORSConfig configures cross-origin access to the query API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig configures the SQLite-backed dev host.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ProvisioningConfig configures the startup handler orchestrator.
type ProvisioningConfig struct {
	// ContinueOnFailure keeps running remaining handlers when one fails.
	// The default aborts at the first failure.
	ContinueOnFailure bool `mapstructure:"continue_on_failure"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads contentkit.yml from the working directory, with environment
// variables overriding file values. A missing file falls back to
// defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_path", "/api")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("database.path", "contentkit.db")
	v.SetDefault("provisioning.continue_on_failure", false)
	v.SetDefault("log.level", "info")

	v.SetConfigName("contentkit")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CONTENTKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file - defaults apply.
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func validate(c *Config) error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.BasePath == "" || c.Server.BasePath[0] != '/' {
		return fmt.Errorf("server.base_path must start with '/', got %q", c.Server.BasePath)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path cannot be empty")
	}
	return nil
}
