// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGrid Contributors

// Package config loads service configuration from flags, an optional YAML
// file, and the DATABASE_URL environment variable.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds all runtime settings for the service.
type Config struct {
	// ListenAddr is the address of the public HTTP API.
	ListenAddr string `koanf:"listen-addr"`

	// ObservabilityAddr is the address of the metrics/health listener.
	ObservabilityAddr string `koanf:"observability-addr"`

	// DatabaseURL is the PostgreSQL connection string. Pool sizing can be
	// tuned through URL parameters (pool_max_conns etc.).
	DatabaseURL string `koanf:"database-url"`

	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log-format"`

	// CORSAllowedOrigins lists origins allowed on the HTTP API.
	// A single "*" allows any origin.
	CORSAllowedOrigins []string `koanf:"cors-allowed-origins"`
}

// RegisterFlags declares every config key as a command-line flag with its
// default value.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("listen-addr", ":8080", "HTTP API listen address")
	fs.String("observability-addr", ":9100", "metrics and health listen address")
	fs.String("database-url", "", "PostgreSQL connection URL")
	fs.String("log-format", "json", "log output format (json or text)")
	fs.StringSlice("cors-allowed-origins", []string{"*"}, "allowed CORS origins")
}

// Load builds the effective configuration. Precedence, lowest to highest:
// flag defaults, YAML config file, explicitly set flags, DATABASE_URL env.
func Load(configFile string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", configFile).
				Wrap(err)
		}
	}

	// posflag fills flag defaults only for keys the file did not set, and
	// always applies flags the user changed.
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		if err := k.Set("database-url", url); err != nil {
			return nil, oops.Code("CONFIG_ENV_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}
	return &cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database URL is required (set --database-url or DATABASE_URL)")
	}
	if c.ListenAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("listen address cannot be empty")
	}
	return nil
}
