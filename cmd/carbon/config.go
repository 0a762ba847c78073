package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"gopkg.in/yaml.v3"

	"github.com/xraph/carbon/store"
	"github.com/xraph/carbon/store/memory"
	carbonmongo "github.com/xraph/carbon/store/mongo"
	"github.com/xraph/carbon/store/postgres"
	carbonredis "github.com/xraph/carbon/store/redis"
	"github.com/xraph/carbon/store/sqlite"
)

// Config is the CLI configuration file.
type Config struct {
	Log struct {
		Format string `yaml:"format"` // text | json
		Level  string `yaml:"level"`
	} `yaml:"log"`

	Store struct {
		Backend string `yaml:"backend"` // memory | redis | sqlite | postgres | mongo
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		SQLite struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`
		Postgres struct {
			DSN string `yaml:"dsn"`
		} `yaml:"postgres"`
		Mongo struct {
			URI      string `yaml:"uri"`
			Database string `yaml:"database"`
		} `yaml:"mongo"`
	} `yaml:"store"`

	HTTP struct {
		Addr          string        `yaml:"addr"`
		BasePath      string        `yaml:"base_path"`
		AccountHeader string        `yaml:"account_header"`
		ReadTimeout   time.Duration `yaml:"read_timeout"`
		WriteTimeout  time.Duration `yaml:"write_timeout"`
	} `yaml:"http"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	var cfg Config
	cfg.Log.Format = "text"
	cfg.Log.Level = "info"
	cfg.Store.Backend = "memory"
	cfg.Store.Redis.Addr = "localhost:6379"
	cfg.Store.Redis.Prefix = carbonredis.DefaultPrefix
	cfg.Store.SQLite.Path = "carbon.db"
	cfg.Store.Mongo.URI = "mongodb://localhost:27017"
	cfg.Store.Mongo.Database = "carbon"
	cfg.HTTP.Addr = "127.0.0.1:8080"
	cfg.HTTP.BasePath = "/carbon"
	cfg.HTTP.AccountHeader = "X-Carbon-Account"
	cfg.HTTP.ReadTimeout = 10 * time.Second
	cfg.HTTP.WriteTimeout = 10 * time.Second
	return cfg
}

// LoadConfig reads path over the defaults. A missing file is not an error
// when path is the default location.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// NewLogger builds the slog logger described by the log section.
func (c Config) NewLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.Log.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Log.Format)
	}
}

// OpenStore opens the configured backend. Grove backends are not migrated
// here; Ledger.Start does that.
func (c Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case "memory", "":
		return memory.New(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     c.Store.Redis.Addr,
			Password: c.Store.Redis.Password,
			DB:       c.Store.Redis.DB,

			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		return carbonredis.New(client, carbonredis.WithPrefix(c.Store.Redis.Prefix)), nil
	case "sqlite":
		drv := sqlitedriver.New()
		if err := drv.Open(ctx, c.Store.SQLite.Path); err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", c.Store.SQLite.Path, err)
		}
		db, err := grove.Open(drv)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", c.Store.SQLite.Path, err)
		}
		return sqlite.New(db), nil
	case "postgres":
		if c.Store.Postgres.DSN == "" {
			return nil, errors.New("store.postgres.dsn is required")
		}
		drv := pgdriver.New()
		if err := drv.Open(ctx, c.Store.Postgres.DSN); err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db, err := grove.Open(drv)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return postgres.New(db), nil
	case "mongo":
		drv := mongodriver.New()
		if err := drv.Open(ctx, c.Store.Mongo.URI, mongodriver.WithDatabase(c.Store.Mongo.Database)); err != nil {
			return nil, fmt.Errorf("open mongo: %w", err)
		}
		db, err := grove.Open(drv)
		if err != nil {
			return nil, fmt.Errorf("open mongo: %w", err)
		}
		return carbonmongo.New(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
}
