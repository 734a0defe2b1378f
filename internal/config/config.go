// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

// Package config loads server configuration from defaults, an optional
// YAML file, and command-line flags, in that order of precedence.
package config

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Default listen addresses and token lifetime.
const (
	DefaultHTTPAddr    = ":8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultTokenTTL    = 24 * time.Hour
	DefaultLogFormat   = "json"
)

// Config holds the server configuration. The token secret is threaded
// explicitly into the token service at construction; nothing reads it
// from ambient global state.
type Config struct {
	HTTPAddr    string        `koanf:"http-addr"`
	MetricsAddr string        `koanf:"metrics-addr"`
	DatabaseURL string        `koanf:"database-url"`
	TokenSecret string        `koanf:"token-secret"`
	TokenTTL    time.Duration `koanf:"token-ttl"`
	LogFormat   string        `koanf:"log-format"`
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		HTTPAddr:    DefaultHTTPAddr,
		MetricsAddr: DefaultMetricsAddr,
		TokenTTL:    DefaultTokenTTL,
		LogFormat:   DefaultLogFormat,
	}
}

// Load builds a Config from defaults, then the YAML file at path (if
// non-empty), then any set flags.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	return cfg, nil
}

// Validate checks that the fields required to run the API server are set.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database-url is required")
	}
	if c.TokenSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("token-secret is required")
	}
	return nil
}
