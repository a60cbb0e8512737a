package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"time-tracker/internal/email"
)

type UploadConfig struct {
	// Directory screenshots are written to. Created on startup if missing.
	Dir string `mapstructure:"dir"`
	// Maximum accepted upload size in bytes.
	MaxSize int64 `mapstructure:"max_size"`
	// JPEG re-encode quality applied to uploaded JPEG screenshots.
	JPEGQuality int `mapstructure:"jpeg_quality"`
	// Allowed filename extensions, without the dot.
	AllowedFormats []string `mapstructure:"allowed_formats"`
}

type Config struct {
	// Secret key for signing tokens. Must be set in production.
	Secret string `mapstructure:"secret"`
	// TTL for access tokens in minutes.
	TokenTTL uint `mapstructure:"token_ttl"`
	// TTL for employee verification tokens in hours.
	VerificationTTL uint `mapstructure:"verification_ttl"`

	LogLevel string `mapstructure:"log_level"`

	// Base URL of the frontend, used to build verification links.
	FrontendURL string `mapstructure:"frontend_url"`

	Storage Storage      `mapstructure:"storage"`
	Upload  UploadConfig `mapstructure:"upload"`

	Email email.SMTPConfig `mapstructure:"email"`
}

var Cfg *Config

// Check if running in Docker container by checking for the presence of /.dockerenv file
func runningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}

func getConfigPath() string {
	if runningInDocker() {
		return "/app/instance"
	}
	return "./instance"
}

// LoadConfig reads configuration from config files and environment variables.
func LoadConfig(configFile ...string) (*Config, error) {
	var cfg Config

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(getConfigPath())
	v.AddConfigPath(".")
	v.SetEnvPrefix("")

	if len(configFile) > 0 {
		for _, path := range configFile {
			v.SetConfigFile(path)
		}
	}

	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("unable to read config file: %v", err)
		}
		// No config file is fine, defaults and environment apply.
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	// Convert relative sqlite path to the instance folder
	if cfg.Storage.SQLite != nil && cfg.Storage.SQLite.Path != "" {
		if cfg.Storage.SQLite.Path == ":memory:" {
			// In-memory database, do nothing
		} else if !os.IsPathSeparator(cfg.Storage.SQLite.Path[0]) {
			cfg.Storage.SQLite.Path = fmt.Sprintf("%s/%s", getConfigPath(), cfg.Storage.SQLite.Path)
		}
	}

	if cfg.Upload.JPEGQuality < 1 || cfg.Upload.JPEGQuality > 100 {
		slog.Warn("UPLOAD_JPEG_QUALITY out of range, using default", slog.Int("actual", cfg.Upload.JPEGQuality))
		cfg.Upload.JPEGQuality = 85
	}

	// Warn if secret is missing - this is a critical security setting for production
	if cfg.Secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("SECRET configuration variable is required in production")
		} else {
			slog.Warn("Secret is not set. Do not use in production.")
		}
	}

	return &cfg, nil
}
