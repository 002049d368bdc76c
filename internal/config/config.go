// Package config resolves runtime settings from defaults, an optional YAML
// file, a .env file, TBETODO_* environment variables and bound CLI flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configName = ".tbetodo"
	envPrefix  = "TBETODO"
)

type Config struct {
	Backend      string    `mapstructure:"backend" validate:"oneof=sqlite document"`
	DocumentPath string    `mapstructure:"document_path" validate:"required_if=Backend document"`
	DatabasePath string    `mapstructure:"database_path" validate:"required_if=Backend sqlite"`
	Log          LogConfig `mapstructure:"log"`
	UI           UIConfig  `mapstructure:"ui"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type UIConfig struct {
	PaneWidth  int `mapstructure:"pane_width" validate:"gte=0"`
	ListHeight int `mapstructure:"list_height" validate:"gte=0"`
}

// LoadOptions points Load at explicit files. Empty fields fall back to
// ./.tbetodo.yaml and ./.env, both optional.
type LoadOptions struct {
	ConfigFile string
	EnvFile    string
}

var validate = validator.New()

// New returns a viper instance with defaults and environment lookup set up.
// Callers bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("backend", "sqlite")
	v.SetDefault("document_path", "todo_list.json")
	v.SetDefault("database_path", "todo_list.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("ui.pane_width", 48)
	v.SetDefault("ui.list_height", 14)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func Load(v *viper.Viper, opts LoadOptions) (Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return Config{}, err
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// loadEnvFile loads path, or ./.env when path is empty. A missing default
// file is fine; a missing explicit file is not. Variables already set in the
// environment win.
func loadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
