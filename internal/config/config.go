package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	dirName  = ".release-lens"
	fileName = "config.yaml"

	envPrefix = "RELEASE_LENS_"
)

// ErrInvalidAPIKey is returned when a TMDB key does not look like a v3 key
var ErrInvalidAPIKey = errors.New("TMDB API key must be 32 lowercase hex characters (the v3 key, not the Read Access Token)")

var (
	apiKeyRe   = regexp.MustCompile(`^[a-f0-9]{32}$`)
	languageRe = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)
)

// Config holds the persistent settings
type Config struct {
	TMDBAPIKey         string       `yaml:"tmdb_api_key"`
	TMDBLanguage       string       `yaml:"tmdb_language"`
	CacheEnabled       bool         `yaml:"cache_enabled"`
	CacheDurationHours int          `yaml:"cache_duration_hours"`
	RateLimit          int          `yaml:"rate_limit"`
	Server             ServerConfig `yaml:"server"`
	Log                LogConfig    `yaml:"log"`
}

// ServerConfig holds the HTTP API settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig holds the logging settings
type LogConfig struct {
	Level         string `yaml:"level"`
	Format        string `yaml:"format"`
	FileEnabled   bool   `yaml:"file_enabled"`
	RetentionDays int    `yaml:"retention_days"`
}

// Default returns the default configuration
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	cfg.TMDBLanguage = "en-US"
	cfg.CacheEnabled = true
	cfg.CacheDurationHours = 168 // 7 days
	cfg.RateLimit = 38           // requests per 10 seconds

	cfg.Server.Addr = "127.0.0.1:8080"

	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Log.FileEnabled = false
	cfg.Log.RetentionDays = 30
}

// Dir returns the directory holding the config file and logs
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, dirName), nil
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the configuration at path, or at ConfigPath when path is empty.
// A missing file yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	loadFromEnv(cfg, os.LookupEnv)
	return cfg, nil
}

// LoadFile is Load without environment overrides. Use it when the result is
// going to be saved back.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Zero values in the file mean "unset"
	defaults := Default()
	if cfg.TMDBLanguage == "" {
		cfg.TMDBLanguage = defaults.TMDBLanguage
	}
	if cfg.CacheDurationHours == 0 {
		cfg.CacheDurationHours = defaults.CacheDurationHours
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaults.Server.Addr
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}
	return cfg, nil
}

// loadFromEnv applies overrides. The API key is deliberately left to EnvStore
// so a Save never persists a key that only lives in the environment.
func loadFromEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup(envPrefix + "ADDR"); ok && v != "" {
		cfg.Server.Addr = v
	}
	if v, ok := lookup(envPrefix + "TMDB_LANGUAGE"); ok && v != "" {
		cfg.TMDBLanguage = v
	}
}

// Save writes the configuration to path, or to ConfigPath when path is empty.
func (cfg *Config) Save(path string) error {
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return err
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file carries an API key
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks every field and joins all problems into one error.
func (cfg *Config) Validate() error {
	var errs []error

	if cfg.TMDBAPIKey != "" {
		if err := ValidateAPIKey(cfg.TMDBAPIKey); err != nil {
			errs = append(errs, err)
		}
	}
	if !languageRe.MatchString(cfg.TMDBLanguage) {
		errs = append(errs, fmt.Errorf("tmdb_language %q is not a language tag like en-US", cfg.TMDBLanguage))
	}
	if cfg.CacheDurationHours < 1 || cfg.CacheDurationHours > 8760 {
		errs = append(errs, fmt.Errorf("cache_duration_hours must be between 1 and 8760, got %d", cfg.CacheDurationHours))
	}
	if cfg.RateLimit < 0 || cfg.RateLimit > 50 {
		errs = append(errs, fmt.Errorf("rate_limit must be between 0 and 50, got %d", cfg.RateLimit))
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", cfg.Log.Format))
	}
	if cfg.Log.RetentionDays < 0 {
		errs = append(errs, fmt.Errorf("log.retention_days must not be negative, got %d", cfg.Log.RetentionDays))
	}

	return errors.Join(errs...)
}

// ValidateAPIKey checks the shape of a TMDB v3 API key.
func ValidateAPIKey(key string) error {
	if !apiKeyRe.MatchString(key) {
		return ErrInvalidAPIKey
	}
	return nil
}

// MaskedAPIKey returns the key with everything but the last four characters hidden.
func (cfg *Config) MaskedAPIKey() string {
	key := cfg.TMDBAPIKey
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
