// Package config loads versionlist settings from defaults, an optional config
// file, VERSIONLIST_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/codingconcepts/versionlist/validate"
)

const (
	// EnvPrefix is prepended to every environment variable override.
	EnvPrefix = "VERSIONLIST"

	// FileName is the config file looked up in the working directory when
	// no explicit path is given. Any extension viper understands works.
	FileName = ".versionlist"
)

// Config contains the parameters we'll need for versionlist's commands.
type Config struct {
	// File is the version list to read and write. Empty means stdin/stdout.
	File string `mapstructure:"file"`

	Timeout          time.Duration `mapstructure:"timeout"`
	MinContentLength int64         `mapstructure:"min_content_length"`
	ContentType      string        `mapstructure:"content_type"`
	LogLevel         string        `mapstructure:"log_level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Timeout:          validate.DefaultTimeout,
		MinContentLength: validate.DefaultMinContentLength,
		ContentType:      validate.DefaultContentType,
		LogLevel:         "info",
	}
}

// Load reads configuration. path selects a config file explicitly and must
// exist; when empty, FileName is looked for in dir and silently skipped if
// absent. flags may be nil; if given, its "file" flag is bound so an
// explicit -f wins over every other source.
func Load(path, dir string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("file", defaults.File)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("min_content_length", defaults.MinContentLength)
	v.SetDefault("content_type", defaults.ContentType)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if f := flags.Lookup("file"); f != nil {
			if err := v.BindPFlag("file", f); err != nil {
				return nil, fmt.Errorf("binding file flag: %w", err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", path, err)
		}
	} else {
		if dir == "" {
			dir = "."
		}
		v.SetConfigName(FileName)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	if cfg.MinContentLength < 0 {
		return nil, fmt.Errorf("min_content_length must not be negative, got %d", cfg.MinContentLength)
	}

	return &cfg, nil
}
