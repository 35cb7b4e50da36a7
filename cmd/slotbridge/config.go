package main

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wippyai/slotbridge/errors"
)

// EnvPrefix prefixes environment overrides, e.g. SLOTBRIDGE_LOG_LEVEL.
const EnvPrefix = "SLOTBRIDGE"

// Config is the resolved CLI configuration.
type Config struct {
	Scene            string    `mapstructure:"scene"`
	Log              LogConfig `mapstructure:"log"`
	MemoryLimitPages uint32    `mapstructure:"memory_limit_pages"`
}

// LogConfig selects the zap logger the CLI builds.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: "warn", Format: "console"},
	}
}

// newViper returns a viper instance with defaults, env overrides and the
// persistent flags bound.
func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("scene", defaults.Scene)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("memory_limit_pages", defaults.MemoryLimitPages)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"scene":              "scene",
		"log.level":          "log-level",
		"log.format":         "log-format",
		"memory_limit_pages": "memory-limit-pages",
	}
	for key, flag := range bindings {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}

// loadConfig resolves the configuration from flags, environment and, when
// path is set, a config file in any format viper reads (TOML, YAML, JSON).
func loadConfig(flags *pflag.FlagSet, path string) (*Config, error) {
	v, err := newViper(flags)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "bind flags")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Load("read config "+path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Load("decode config", err)
	}
	return &cfg, nil
}

// newLogger builds a development (console) or production (json) zap logger
// at the configured level.
func newLogger(cfg LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "log.level")
	}

	var zc zap.Config
	switch cfg.Format {
	case "", "console":
		zc = zap.NewDevelopmentConfig()
	case "json":
		zc = zap.NewProductionConfig()
	default:
		return nil, errors.InvalidInput(errors.PhaseLoad, "log.format must be console or json, got "+cfg.Format)
	}
	zc.Level = level
	return zc.Build()
}
