// Package config loads engine settings for the binaries from the environment.
//
// Variables use the VECSHARD_ prefix. A .env file is read first when present;
// variables already set in the environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/hupe1980/vecshard"
)

// Prefix is the environment variable prefix.
const Prefix = "VECSHARD"

// Config holds engine and logging settings.
type Config struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"` // text or json

	MemoryLimitBytes  int64 `envconfig:"MEMORY_LIMIT_BYTES" default:"0"` // 0 means unlimited
	Parallelism       int   `envconfig:"PARALLELISM" default:"0"`        // 0 means GOMAXPROCS
	ParallelThreshold int   `envconfig:"PARALLEL_THRESHOLD" default:"0"` // 0 means library default

	MaxConcurrentQueries int     `envconfig:"MAX_CONCURRENT_QUERIES" default:"0"`
	QueriesPerSecond     float64 `envconfig:"QUERIES_PER_SECOND" default:"0"`
	QueryBurst           int     `envconfig:"QUERY_BURST" default:"0"`
}

// Load reads the given .env files (default ".env"), ignoring missing ones,
// then processes the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks value ranges envconfig cannot express.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: want text or json", c.LogFormat)
	}

	if c.MemoryLimitBytes < 0 {
		return fmt.Errorf("memory limit must not be negative, got %d", c.MemoryLimitBytes)
	}

	if c.QueriesPerSecond < 0 {
		return fmt.Errorf("queries per second must not be negative, got %g", c.QueriesPerSecond)
	}

	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Logger builds the configured logger.
func (c Config) Logger() *vecshard.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}

	if strings.EqualFold(c.LogFormat, "json") {
		return vecshard.NewJSONLogger(level)
	}
	return vecshard.NewTextLogger(level)
}

// Options translates the config into engine options. Zero values keep the
// library defaults.
func (c Config) Options() []vecshard.Option {
	opts := []vecshard.Option{
		vecshard.WithLogger(c.Logger()),
	}

	if c.MemoryLimitBytes > 0 {
		opts = append(opts, vecshard.WithMemoryLimit(c.MemoryLimitBytes))
	}

	if c.Parallelism > 0 {
		opts = append(opts, vecshard.WithParallelism(c.Parallelism))
	}

	if c.ParallelThreshold > 0 {
		opts = append(opts, vecshard.WithParallelThreshold(c.ParallelThreshold))
	}

	if c.MaxConcurrentQueries > 0 {
		opts = append(opts, vecshard.WithMaxConcurrentQueries(c.MaxConcurrentQueries))
	}

	if c.QueriesPerSecond > 0 {
		opts = append(opts, vecshard.WithQueryRateLimit(c.QueriesPerSecond, c.QueryBurst))
	}

	return opts
}
