// Package config loads service configuration from an optional YAML file, an
// optional .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/azybler/map_instructions/pkg/logger"
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Locales LocalesConfig `yaml:"locales"`
	Roads   RoadsConfig   `yaml:"roads"`
	Logging logger.Config `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	CORSOrigin     string        `yaml:"cors_origin"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxConcurrent caps in-flight requests; extra requests get 503.
	MaxConcurrent int `yaml:"max_concurrent"`
}

// LocalesConfig controls where phrase dictionaries come from.
type LocalesConfig struct {
	Default string `yaml:"default"`

	// Dir holds dictionaries that override or add to the embedded ones.
	// Empty means embedded only.
	Dir string `yaml:"dir"`

	// Watch reloads dictionaries when files in Dir change.
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// RoadsConfig enables filling missing road names from a preprocessed
// OSM extract.
type RoadsConfig struct {
	Path        string  `yaml:"path"`
	MaxDistance float64 `yaml:"max_distance_m"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   5 * time.Second,
			RequestTimeout: 5 * time.Second,
			MaxConcurrent:  64,
		},
		Locales: LocalesConfig{
			Default:  "en",
			Debounce: 250 * time.Millisecond,
		},
		Roads: RoadsConfig{
			MaxDistance: 30,
		},
		Logging: logger.DefaultConfig(),
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped if
// path is empty or missing), then envFile (".env" if empty; skipped if
// missing), then process environment variables. The result is validated.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if envFile == "" {
		envFile = ".env"
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read %s: %w", envFile, err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	var errs []error
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := lookup(key); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s: %w", key, err))
				return
			}
			*dst = f
		}
	}

	str("MI_ADDR", &c.Server.Addr)
	str("MI_CORS_ORIGIN", &c.Server.CORSOrigin)
	integer("MI_MAX_CONCURRENT", &c.Server.MaxConcurrent)
	str("MI_DEFAULT_LOCALE", &c.Locales.Default)
	str("MI_LOCALES_DIR", &c.Locales.Dir)
	boolean("MI_WATCH_LOCALES", &c.Locales.Watch)
	str("MI_ROADS_PATH", &c.Roads.Path)
	float("MI_ROADS_MAX_DISTANCE", &c.Roads.MaxDistance)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.ConsoleFormat)
	boolean("LOG_FILE_ENABLED", &c.Logging.FileEnabled)
	str("LOG_FILE_PATH", &c.Logging.FilePath)

	return errors.Join(errs...)
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server address is required")
	}
	if c.Server.MaxConcurrent <= 0 {
		return fmt.Errorf("config: max_concurrent must be positive, got %d", c.Server.MaxConcurrent)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.RequestTimeout <= 0 {
		return errors.New("config: server timeouts must be positive")
	}
	if _, err := language.Parse(c.Locales.Default); err != nil {
		return fmt.Errorf("config: default locale %q: %w", c.Locales.Default, err)
	}
	if c.Locales.Watch && c.Locales.Dir == "" {
		return errors.New("config: watching locales requires a locales dir")
	}
	if c.Roads.MaxDistance < 0 {
		return fmt.Errorf("config: roads max distance must not be negative, got %v", c.Roads.MaxDistance)
	}
	return nil
}
