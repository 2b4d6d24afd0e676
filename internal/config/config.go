// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

// Package config loads GiftLink settings from defaults, a YAML file, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/giftlink/giftlink/internal/auth"
	"github.com/giftlink/giftlink/internal/logging"
	"github.com/giftlink/giftlink/internal/store"
)

// EnvPrefix marks variables read into the config tree. A double underscore
// separates nesting levels: GIFTLINK_STORE__KIND sets store.kind.
const EnvPrefix = "GIFTLINK_"

// Store kinds.
const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

// legacyEnv maps the unprefixed variables older deployments set.
var legacyEnv = map[string]string{
	"JWT_SECRET":   "token.secret",
	"DATABASE_URL": "store.postgres.url",
	"MONGO_URL":    "store.mongo.url",
}

// Config is the full runtime configuration.
type Config struct {
	HTTP       HTTPConfig           `koanf:"http"`
	Metrics    MetricsConfig        `koanf:"metrics"`
	Log        LogConfig            `koanf:"log"`
	Store      StoreConfig          `koanf:"store"`
	Token      auth.TokenConfig     `koanf:"token"`
	Password   auth.HasherConfig    `koanf:"password"`
	Validation auth.ValidatorConfig `koanf:"validation"`
	Auth       AuthConfig           `koanf:"auth"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// MetricsConfig configures the metrics and health listener. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig configures the default logger.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// StoreConfig selects and configures the user store.
type StoreConfig struct {
	Kind     string         `koanf:"kind"`
	Postgres PostgresConfig `koanf:"postgres"`
	Mongo    MongoConfig    `koanf:"mongo"`
}

// PostgresConfig configures the PostgreSQL store.
type PostgresConfig struct {
	URL         string            `koanf:"url"`
	AutoMigrate bool              `koanf:"auto_migrate"`
	Retry       store.RetryConfig `koanf:"retry"`
}

// MongoConfig configures the MongoDB store.
type MongoConfig struct {
	URL      string `koanf:"url"`
	Database string `koanf:"database"`
}

// AuthConfig holds service-level switches.
type AuthConfig struct {
	// UpdateRequiresToken rejects Update calls without a bearer token.
	UpdateRequiresToken bool `koanf:"update_requires_token"`
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	retry := store.DefaultRetryConfig()
	return map[string]any{
		"http.addr":                     ":3060",
		"http.shutdown_timeout":         5 * time.Second,
		"metrics.addr":                  "127.0.0.1:9100",
		"log.format":                    "json",
		"log.level":                     "info",
		"store.kind":                    StorePostgres,
		"store.postgres.auto_migrate":   false,
		"store.postgres.retry.attempts": retry.Attempts,
		"store.postgres.retry.base":     retry.Base,
		"store.postgres.retry.max":      retry.Max,
		"store.mongo.database":          "giftdb",
		"token.ttl":                     time.Duration(0),
		"token.issuer":                  "giftlink",
		"password.algorithm":            auth.AlgorithmBcrypt,
		"password.bcrypt_cost":          auth.DefaultBcryptCost,
		"auth.update_requires_token":    true,
	}
}

// Options says where Load looks besides the defaults.
type Options struct {
	// File is an optional YAML config file.
	File string
	// DotEnv is an optional .env file. A missing file is not an error.
	DotEnv string
	// Flags are applied last. Only flags listed in FlagKeys are read.
	Flags *pflag.FlagSet
	// SkipValidation returns the merged config without calling Validate,
	// for commands that need only part of it.
	SkipValidation bool
}

// FlagKeys maps command-line flag names to config keys.
var FlagKeys = map[string]string{
	"http-addr":    "http.addr",
	"metrics-addr": "metrics.addr",
	"log-format":   "log.format",
	"log-level":    "log.level",
	"store":        "store.kind",
	"database-url": "store.postgres.url",
	"auto-migrate": "store.postgres.auto_migrate",
	"mongo-url":    "store.mongo.url",
}

// Load builds a Config and validates it.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}

	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "file").With("path", opts.File).Wrap(err)
		}
	}

	if opts.DotEnv != "" {
		if err := godotenv.Load(opts.DotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "dotenv").With("path", opts.DotEnv).Wrap(err)
		}
	}

	if err := k.Load(env.Provider("", ".", legacyEnvKey), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", prefixedEnvKey), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	if opts.Flags != nil {
		provider := posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := FlagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "unmarshal").Wrap(err)
	}
	if opts.SkipValidation {
		return &cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func legacyEnvKey(name string) string {
	return legacyEnv[name]
}

func prefixedEnvKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	invalid := func(field, format string, args ...any) error {
		return oops.Code("CONFIG_INVALID").With("field", field).Errorf(format, args...)
	}

	if c.HTTP.Addr == "" {
		return invalid("http.addr", "http.addr is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return invalid("log.format", "log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", "%v", err)
	}
	if strings.TrimSpace(c.Token.Secret) == "" {
		return invalid("token.secret", "token.secret is required (set JWT_SECRET or %sTOKEN__SECRET)", EnvPrefix)
	}
	if c.Token.TTL < 0 {
		return invalid("token.ttl", "token.ttl must not be negative")
	}

	switch c.Store.Kind {
	case StorePostgres:
		if c.Store.Postgres.URL == "" {
			return invalid("store.postgres.url", "store.postgres.url is required (set DATABASE_URL)")
		}
	case StoreMongo:
		if c.Store.Mongo.URL == "" {
			return invalid("store.mongo.url", "store.mongo.url is required (set MONGO_URL)")
		}
		if c.Store.Mongo.Database == "" {
			return invalid("store.mongo.database", "store.mongo.database is required")
		}
	case StoreMemory:
	default:
		return invalid("store.kind", "store.kind must be one of postgres, mongo, memory, got %q", c.Store.Kind)
	}

	switch c.Password.Algorithm {
	case auth.AlgorithmBcrypt:
		if c.Password.BcryptCost != 0 && (c.Password.BcryptCost < 4 || c.Password.BcryptCost > 31) {
			return invalid("password.bcrypt_cost", "password.bcrypt_cost must be between 4 and 31, got %d", c.Password.BcryptCost)
		}
	case auth.AlgorithmArgon2id:
	default:
		return invalid("password.algorithm", "password.algorithm must be %q or %q, got %q",
			auth.AlgorithmBcrypt, auth.AlgorithmArgon2id, c.Password.Algorithm)
	}
	return nil
}
