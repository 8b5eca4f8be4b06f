package config

import (
	"os"
	"strings"
	"sync/atomic"
)

// APIKeyName is the name the TMDB key is stored under
const APIKeyName = "tmdb_api_key"

// KeyStore looks up settings by name
type KeyStore interface {
	Lookup(name string) (string, bool)
}

// Lookup implements KeyStore over the file settings.
func (cfg *Config) Lookup(name string) (string, bool) {
	if cfg == nil {
		return "", false
	}
	switch name {
	case APIKeyName:
		return cfg.TMDBAPIKey, cfg.TMDBAPIKey != ""
	case "tmdb_language":
		return cfg.TMDBLanguage, cfg.TMDBLanguage != ""
	}
	return "", false
}

// EnvStore reads settings from RELEASE_LENS_<NAME> environment variables.
type EnvStore struct {
	LookupEnv func(string) (string, bool)
}

// Lookup implements KeyStore
func (e EnvStore) Lookup(name string) (string, bool) {
	lookup := e.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return lookup(EnvName(name))
}

// EnvName returns the environment variable consulted for a setting name.
func EnvName(name string) string {
	return envPrefix + strings.ToUpper(name)
}

// MapStore is a fixed set of settings
type MapStore map[string]string

// Lookup implements KeyStore
func (m MapStore) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Layered consults each store in order. The first non-blank value wins.
type Layered []KeyStore

// Lookup implements KeyStore
func (l Layered) Lookup(name string) (string, bool) {
	for _, store := range l {
		if store == nil {
			continue
		}
		if v, ok := store.Lookup(name); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}

// Live holds the most recently loaded configuration and can be swapped while
// readers are active.
type Live struct {
	current atomic.Pointer[Config]
}

// NewLive creates a Live holding cfg
func NewLive(cfg *Config) *Live {
	l := &Live{}
	l.Store(cfg)
	return l
}

// Load returns the current configuration
func (l *Live) Load() *Config {
	return l.current.Load()
}

// Store replaces the current configuration
func (l *Live) Store(cfg *Config) {
	l.current.Store(cfg)
}

// Lookup implements KeyStore
func (l *Live) Lookup(name string) (string, bool) {
	return l.Load().Lookup(name)
}

// APIKey returns the TMDB key from store, or "" when missing or blank.
func APIKey(store KeyStore) string {
	if store == nil {
		return ""
	}
	v, ok := store.Lookup(APIKeyName)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}
