// Package config loads the CLI settings from an optional YAML file and USSDSIM_* environment
// variables. Command-line flags are applied on top by the commands themselves.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/ussdsim/internal/logging"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the full set of runtime settings.
type Config struct {
	Log struct {
		Level  string `yaml:"level" env:"USSDSIM_LOG_LEVEL" env-default:"info" env-description:"log level (debug, info, warn, error)"`
		Format string `yaml:"format" env:"USSDSIM_LOG_FORMAT" env-default:"text" env-description:"log format (text, json)"`
	} `yaml:"log"`

	Catalog string `yaml:"catalog" env:"USSDSIM_CATALOG" env-description:"path to a YAML response catalog (built-in when empty)"`
	Devices string `yaml:"devices" env:"USSDSIM_DEVICES" env-description:"path to a YAML device list (built-in when empty)"`

	Delay struct {
		Dial   time.Duration `yaml:"dial" env:"USSDSIM_DIAL_DELAY" env-default:"2s" env-description:"simulated network delay before a dial is answered"`
		Select time.Duration `yaml:"select" env:"USSDSIM_SELECT_DELAY" env-default:"1500ms" env-description:"simulated network delay before a selection is answered"`
	} `yaml:"delay"`

	HTTP struct {
		Addr string `yaml:"addr" env:"USSDSIM_HTTP_ADDR" env-default:":8080" env-description:"HTTP listen address"`
	} `yaml:"http"`

	Redis struct {
		Addr     string        `yaml:"addr" env:"USSDSIM_REDIS_ADDR" env-description:"Redis address; sessions stay in process memory when empty"`
		Password string        `yaml:"password" env:"USSDSIM_REDIS_PASSWORD" env-description:"Redis password"`
		DB       int           `yaml:"db" env:"USSDSIM_REDIS_DB" env-default:"0" env-description:"Redis database"`
		Prefix   string        `yaml:"prefix" env:"USSDSIM_REDIS_PREFIX" env-default:"ussdsim:session:" env-description:"Redis key prefix"`
		TTL      time.Duration `yaml:"ttl" env:"USSDSIM_SESSION_TTL" env-default:"5m" env-description:"idle session expiry"`
		LockTTL  time.Duration `yaml:"lock_ttl" env:"USSDSIM_LOCK_TTL" env-default:"30s" env-description:"distributed session lock expiry"`
	} `yaml:"redis"`

	Console struct {
		Device string `yaml:"device" env:"USSDSIM_DEVICE" env-default:"1" env-description:"device used by the console"`
		SIM    string `yaml:"sim" env:"USSDSIM_SIM" env-default:"Slot 1" env-description:"SIM slot used by the console"`
	} `yaml:"console"`
}

// Load reads path (when set) and then the environment. Environment values win.
func Load(path string) (*Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the loaders cannot.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	if c.Delay.Dial < 0 || c.Delay.Select < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	return nil
}

// Logger builds the application logger from the log settings.
func (c *Config) Logger() *slog.Logger {
	level, _ := logging.ParseLevel(c.Log.Level)
	format, _ := logging.ParseFormat(c.Log.Format)
	return logging.NewWithWriter(logWriter, level, format)
}

// Usage lists the supported environment variables.
func Usage() string {
	text, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return text
}
