// Package config holds process-wide settings for the boundary layer.
//
// Settings come from viper, so they can be supplied as environment
// variables with the RE2C_ prefix or as a configuration file named by
// RE2C_CONFIG (any format viper reads: yaml, json, toml):
//
//	RE2C_ENGINE=re2
//	RE2C_MAX_MEM="8 MiB"
//	RE2C_CACHE_ENTRIES=1024
package config

import (
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/coregx/re2c/options"
)

// EnvPrefix is the prefix of every environment variable read by FromEnv.
const EnvPrefix = "RE2C"

// Keys understood by Load.
const (
	KeyConfigFile   = "config"
	KeyEngine       = "engine"
	KeyMaxMem       = "max_mem"
	KeyCacheEntries = "cache_entries"
)

// DefaultEngine is the engine used when none is configured.
const DefaultEngine = "coregex"

// Config controls how the boundary compiles patterns.
type Config struct {
	// Engine is the registered engine name.
	// Default: "coregex"
	Engine string

	// MaxMem is the memory budget applied when a caller passes zero.
	// Default: 2 MiB
	MaxMem uint64

	// CacheEntries bounds the compiled-program cache. Zero disables it.
	// Default: 0
	CacheEntries int64
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: DefaultEngine,
		MaxMem: options.DefaultMaxMem,
	}
}

// Validate checks that every field is usable.
func (c Config) Validate() error {
	if c.Engine == "" {
		return &ConfigError{Field: "Engine", Message: "must not be empty"}
	}
	if c.MaxMem == 0 {
		return &ConfigError{Field: "MaxMem", Message: "must be positive"}
	}
	if c.CacheEntries < 0 {
		return &ConfigError{Field: "CacheEntries", Message: "must not be negative"}
	}
	return nil
}

// Load reads a Config from v, falling back to Default for unset keys.
// MaxMem accepts plain byte counts or human-readable sizes ("8 MiB").
func Load(v *viper.Viper) (Config, error) {
	def := Default()
	v.SetDefault(KeyEngine, def.Engine)
	v.SetDefault(KeyMaxMem, humanize.IBytes(def.MaxMem))
	v.SetDefault(KeyCacheEntries, def.CacheEntries)

	maxMem, err := humanize.ParseBytes(v.GetString(KeyMaxMem))
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: parsing %s", KeyMaxMem)
	}

	cfg := Config{
		Engine:       v.GetString(KeyEngine),
		MaxMem:       maxMem,
		CacheEntries: v.GetInt64(KeyCacheEntries),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv loads a Config from RE2C_* environment variables and, when
// RE2C_CONFIG is set, from the file it names.
func FromEnv() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if file := v.GetString(KeyConfigFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "config: reading %s", file)
		}
	}
	return Load(v)
}

// ConfigError represents an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "re2c: invalid config: " + e.Field + ": " + e.Message
}
