// Package config loads the solver configuration from defaults, an optional
// YAML file, a .env file and WORDLE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. WORDLE_CACHE_BACKEND.
const EnvPrefix = "WORDLE"

// Cache backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// Config is the full application configuration.
type Config struct {
	Dictionary DictionaryConfig `mapstructure:"dictionary" yaml:"dictionary"`
	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache"`
	Build      BuildConfig      `mapstructure:"build" yaml:"build"`
	Solver     SolverConfig     `mapstructure:"solver" yaml:"solver"`
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
}

// DictionaryConfig locates the word list.
type DictionaryConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// CacheConfig selects where built indexes are kept.
type CacheConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	Dir     string `mapstructure:"dir" yaml:"dir"`
	DSN     string `mapstructure:"dsn" yaml:"dsn"`
}

// BuildConfig tunes index construction.
type BuildConfig struct {
	Workers  int  `mapstructure:"workers" yaml:"workers"`
	Progress bool `mapstructure:"progress" yaml:"progress"`
}

// SolverConfig tunes guess selection.
type SolverConfig struct {
	EndgameThreshold int `mapstructure:"endgame_threshold" yaml:"endgame_threshold"`
	Workers          int `mapstructure:"workers" yaml:"workers"`
	Top              int `mapstructure:"top" yaml:"top"`
	MaxRounds        int `mapstructure:"max_rounds" yaml:"max_rounds"`
}

// LoggerConfig holds the logging settings. File, when set, receives JSON
// records rotated by size.
type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// ServerConfig configures the HTTP advisor.
type ServerConfig struct {
	Addr    string        `mapstructure:"addr" yaml:"addr"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dictionary.path", "words.txt")

	v.SetDefault("cache.backend", BackendFile)
	v.SetDefault("cache.dir", "~/.cache/wordle-entropy")
	v.SetDefault("cache.dsn", "~/.cache/wordle-entropy/index.db")

	v.SetDefault("build.workers", runtime.NumCPU())
	v.SetDefault("build.progress", true)

	v.SetDefault("solver.endgame_threshold", 10)
	v.SetDefault("solver.workers", runtime.NumCPU())
	v.SetDefault("solver.top", 5)
	v.SetDefault("solver.max_rounds", 0)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size", 20)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", true)

	v.SetDefault("server.addr", ":5175")
	v.SetDefault("server.timeout", "10s")
}

// NewDefaultConfig returns the configuration made of defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load reads the configuration into v and returns it validated. cfgFile may
// be empty, in which case ./config.yaml is used when present. Flags bound to
// v before the call take precedence over everything else.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	// A missing .env file is normal.
	_ = godotenv.Load()

	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Dictionary.Path, &c.Cache.Dir, &c.Cache.DSN, &c.Logger.File} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Dictionary.Path == "" {
		return errors.New("dictionary.path is required")
	}
	switch c.Cache.Backend {
	case BackendFile:
		if c.Cache.Dir == "" {
			return errors.New("cache.dir is required for the file backend")
		}
	case BackendSQLite:
		if c.Cache.DSN == "" {
			return errors.New("cache.dsn is required for the sqlite backend")
		}
	case BackendNone:
	default:
		return fmt.Errorf("cache.backend must be one of file, sqlite, none; got %q", c.Cache.Backend)
	}
	if c.Build.Workers < 1 {
		return errors.New("build.workers must be a positive integer")
	}
	if c.Solver.Workers < 1 {
		return errors.New("solver.workers must be a positive integer")
	}
	if c.Solver.EndgameThreshold < 0 {
		return errors.New("solver.endgame_threshold must not be negative")
	}
	if c.Solver.Top < 1 {
		return errors.New("solver.top must be a positive integer")
	}
	if c.Solver.MaxRounds < 0 {
		return errors.New("solver.max_rounds must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.Logger.Level); err != nil {
		return fmt.Errorf("logger.level: %w", err)
	}
	if c.Logger.Format != "console" && c.Logger.Format != "json" {
		return fmt.Errorf("logger.format must be console or json; got %q", c.Logger.Format)
	}
	if c.Server.Timeout <= 0 {
		return errors.New("server.timeout must be a positive duration")
	}
	return nil
}
