package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Reconnect ReconnectConfig `mapstructure:"reconnect"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	Preserve bool   `mapstructure:"preserve"`
	Level    string `mapstructure:"level"`
}

// ServerConfig holds the service endpoints and channel timing
type ServerConfig struct {
	URL                 string        `mapstructure:"url"`
	HandshakeTimeout    time.Duration `mapstructure:"handshake_timeout"`
	HandshakeTimeoutStr string        `mapstructure:"handshake_timeout"` // For parsing string duration
	SendTimeout         time.Duration `mapstructure:"send_timeout"`
	SendTimeoutStr      string        `mapstructure:"send_timeout"` // For parsing string duration
	PingInterval        time.Duration `mapstructure:"ping_interval"`
	PingIntervalStr     string        `mapstructure:"ping_interval"` // For parsing string duration
}

// AuthConfig holds token sourcing. Token wins over TokenFile when both are
// set.
type AuthConfig struct {
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token_file"`
}

// ReconnectConfig holds automatic reconnect behavior. MaxAttempts zero
// disables reconnecting entirely.
type ReconnectConfig struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	BackoffBase    time.Duration `mapstructure:"backoff_base"`
	BackoffBaseStr string        `mapstructure:"backoff_base"` // For parsing string duration
	BackoffMax     time.Duration `mapstructure:"backoff_max"`
	BackoffMaxStr  string        `mapstructure:"backoff_max"` // For parsing string duration
}

// Global config instance
var cfg *Config

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// Load loads configuration from file and environment
func Load(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			xdgConfigHome = filepath.Join(home, ".config")
		}
		vantageCfgHome := filepath.Join(xdgConfigHome, ".vantage")

		viper.AddConfigPath("./.vantage")   // Check project directory first
		viper.AddConfigPath(vantageCfgHome) // Then check XDG config location
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings.yaml")
	}

	viper.AutomaticEnv()
	bindEnvironmentVariables()

	// A missing config file is fine; defaults and environment cover it.
	_ = viper.ReadInConfig()

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := processDurations(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults sets all default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.url", "http://localhost:8080")
	viper.SetDefault("server.handshake_timeout", "10s")
	viper.SetDefault("server.send_timeout", "5s")
	viper.SetDefault("server.ping_interval", "30s")

	// Auth defaults
	viper.SetDefault("auth.token", "")
	viper.SetDefault("auth.token_file", "")

	// Reconnect defaults. Zero attempts means reconnection stays off until
	// an operator turns it on.
	viper.SetDefault("reconnect.max_attempts", 0)
	viper.SetDefault("reconnect.backoff_base", "1s")
	viper.SetDefault("reconnect.backoff_max", "30s")

	// Logging defaults
	viper.SetDefault("logging.log_file", "./.vantage/system.log")
	viper.SetDefault("logging.preserve", false)
	viper.SetDefault("logging.level", "info")
}

// bindEnvironmentVariables binds specific environment variables to Viper keys
func bindEnvironmentVariables() {
	viper.BindEnv("server.url", "VANTAGE_SERVER_URL")
	viper.BindEnv("auth.token", "VANTAGE_TOKEN")
	viper.BindEnv("auth.token_file", "VANTAGE_TOKEN_FILE")
	viper.BindEnv("reconnect.max_attempts", "VANTAGE_RECONNECT_MAX_ATTEMPTS")
	viper.BindEnv("logging.log_file", "VANTAGE_LOG_FILE")
	viper.BindEnv("logging.level", "VANTAGE_LOG_LEVEL")
	viper.BindEnv("logging.preserve", "VANTAGE_LOG_PRESERVE")
	viper.BindEnv("config.path", "VANTAGE_CONFIG_DIR")
}

// processDurations converts string durations to time.Duration
func processDurations(cfg *Config) error {
	durations := []struct {
		name string
		str  string
		dst  *time.Duration
		def  time.Duration
	}{
		{"server.handshake_timeout", cfg.Server.HandshakeTimeoutStr, &cfg.Server.HandshakeTimeout, 10 * time.Second},
		{"server.send_timeout", cfg.Server.SendTimeoutStr, &cfg.Server.SendTimeout, 5 * time.Second},
		{"server.ping_interval", cfg.Server.PingIntervalStr, &cfg.Server.PingInterval, 30 * time.Second},
		{"reconnect.backoff_base", cfg.Reconnect.BackoffBaseStr, &cfg.Reconnect.BackoffBase, time.Second},
		{"reconnect.backoff_max", cfg.Reconnect.BackoffMaxStr, &cfg.Reconnect.BackoffMax, 30 * time.Second},
	}

	for _, d := range durations {
		if d.str != "" {
			parsed, err := time.ParseDuration(d.str)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", d.name, err)
			}
			*d.dst = parsed
		} else if *d.dst == 0 {
			*d.dst = d.def
		}
	}
	return nil
}

// SettingsDir returns the directory holding mutable app state such as the
// log file. config.path overrides it; otherwise state lives next to the
// settings file that was loaded.
func SettingsDir() string {
	if dir := viper.GetString("config.path"); dir != "" {
		return dir
	}
	return filepath.Dir(viper.ConfigFileUsed())
}

// ResolveToken returns the bearer token from config, reading the token file
// when no inline token is set. Empty means anonymous.
func (c *Config) ResolveToken() (string, error) {
	if c.Auth.Token != "" {
		return c.Auth.Token, nil
	}
	if c.Auth.TokenFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.Auth.TokenFile)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
