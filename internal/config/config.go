// Package config loads flowboard settings from defaults, a YAML file, a .env file
// and FLOWBOARD_* environment variables, in increasing order of precedence.
package config

import (
	"time"
)

// Config is the complete runtime configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Validator ValidatorConfig `mapstructure:"validator" yaml:"validator"`
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Editor    EditorConfig    `mapstructure:"editor" yaml:"editor"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// ServerConfig configures the editor API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr" validate:"required,hostname_port"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins" yaml:"allowed_origins" validate:"dive,required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
}

// ValidatorConfig configures both the client used for submissions and the reference validator service.
type ValidatorConfig struct {
	URL            string        `mapstructure:"url" yaml:"url" validate:"required,url"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	Addr           string        `mapstructure:"addr" yaml:"addr" validate:"required,hostname_port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins" yaml:"allowed_origins" validate:"dive,required"`
}

// StorageConfig selects where session snapshots live.
type StorageConfig struct {
	Backend string        `mapstructure:"backend" yaml:"backend" validate:"oneof=memory file redis"`
	Dir     string        `mapstructure:"dir" yaml:"dir" validate:"required_if=Backend file"`
	LockTTL time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl" validate:"gte=0"`
	Redis   RedisConfig   `mapstructure:"redis" yaml:"redis"`
	// Redact lists regular expressions; matching node data keys are masked in stored snapshots.
	Redact []string `mapstructure:"redact" yaml:"redact"`
}

// RedisConfig configures the redis snapshot store and locker.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db" validate:"gte=0"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"gte=0"`
}

// EditorConfig tunes editing sessions.
type EditorConfig struct {
	ConnectPolicy string `mapstructure:"connect_policy" yaml:"connect_policy" validate:"oneof=lenient strict"`
	StrictFields  bool   `mapstructure:"strict_fields" yaml:"strict_fields"`
}

// LogConfig configures the slog logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
}

// Default returns the built-in configuration, matching the original editor's local setup.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            "localhost:8080",
			AllowedOrigins:  []string{"http://localhost:3000"},
			ShutdownTimeout: 10 * time.Second,
		},
		Validator: ValidatorConfig{
			URL:            "http://localhost:8000",
			Timeout:        30 * time.Second,
			Addr:           "localhost:8000",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Storage: StorageConfig{
			Backend: "memory",
			Dir:     ".flowboard/sessions",
			LockTTL: 30 * time.Second,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "flowboard:session:",
			},
		},
		Editor: EditorConfig{
			ConnectPolicy: "lenient",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
