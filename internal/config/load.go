package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FLOWBOARD_"

// envKeys maps environment variable suffixes to config paths.
var envKeys = map[string]string{
	"SERVER_ADDR":               "server.addr",
	"SERVER_ALLOWED_ORIGINS":    "server.allowed_origins",
	"SERVER_SHUTDOWN_TIMEOUT":   "server.shutdown_timeout",
	"VALIDATOR_URL":             "validator.url",
	"VALIDATOR_TIMEOUT":         "validator.timeout",
	"VALIDATOR_ADDR":            "validator.addr",
	"VALIDATOR_ALLOWED_ORIGINS": "validator.allowed_origins",
	"STORAGE_BACKEND":           "storage.backend",
	"STORAGE_DIR":               "storage.dir",
	"STORAGE_LOCK_TTL":          "storage.lock_ttl",
	"STORAGE_REDACT":            "storage.redact",
	"REDIS_ADDR":                "storage.redis.addr",
	"REDIS_PASSWORD":            "storage.redis.password",
	"REDIS_DB":                  "storage.redis.db",
	"REDIS_PREFIX":              "storage.redis.prefix",
	"REDIS_TTL":                 "storage.redis.ttl",
	"EDITOR_CONNECT_POLICY":     "editor.connect_policy",
	"EDITOR_STRICT_FIELDS":      "editor.strict_fields",
	"LOG_LEVEL":                 "log.level",
	"LOG_FORMAT":                "log.format",
}

// Options controls where Load looks for settings.
type Options struct {
	// File is a YAML config file. Empty skips it; a missing explicit file is an error.
	File string
	// EnvFile is a dotenv file. A missing EnvFile is ignored.
	EnvFile string
	// LookupEnv reads the process environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load builds the configuration: defaults, then File, then EnvFile, then the environment.
// The result is validated before it is returned.
func Load(opts Options) (Config, error) {
	cfg := Default()
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}

	layer := map[string]any{}
	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &layer); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", opts.File, err)
		}
		if layer == nil {
			layer = map[string]any{}
		}
	}

	dotenv := map[string]string{}
	if opts.EnvFile != "" {
		m, err := godotenv.Read(opts.EnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read %s: %w", opts.EnvFile, err)
		}
		if m != nil {
			dotenv = m
		}
	}

	for suffix, path := range envKeys {
		name := EnvPrefix + suffix
		v, ok := opts.LookupEnv(name)
		if !ok {
			v, ok = dotenv[name]
		}
		if ok {
			set(layer, path, v)
		}
	}

	if err := decode(layer, &cfg); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// set writes value at a dotted path, creating intermediate maps.
func set(m map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

func decode(input map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

var validate = validator.New()

// Validate checks the configuration against its struct constraints.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("configuration validation failed: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
