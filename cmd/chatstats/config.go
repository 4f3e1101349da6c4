package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tinytelemetry/chatstats/internal/appshell"
	"github.com/tinytelemetry/chatstats/internal/chatsource"
	"github.com/tinytelemetry/chatstats/internal/histogram"
	"github.com/tinytelemetry/chatstats/internal/httpserver"
	"github.com/tinytelemetry/chatstats/internal/model"
)

const (
	defaultListenAddr     = model.DefaultListenAddr
	defaultMaxLineSize    = model.DefaultMaxLineSize
	defaultMaxUploadBytes = model.DefaultMaxUploadBytes
	defaultChartWidth     = model.DefaultChartWidth
	defaultChartHeight    = model.DefaultChartHeight
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	ListenAddr         string `mapstructure:"listen-addr" validate:"required,hostname_port"`
	MaxLineSize        int    `mapstructure:"max-line-size" validate:"gt=0"`
	MaxUploadBytes     int64  `mapstructure:"max-upload-bytes" validate:"gt=0"`
	ChartWidth         int    `mapstructure:"chart-width" validate:"min=200"`
	ChartHeight        int    `mapstructure:"chart-height" validate:"min=200"`
	LogFile            string `mapstructure:"log-file" validate:"required"`
	ReverseScrollWheel bool   `mapstructure:"reverse-scroll-wheel"`
	ConfigPath         string `mapstructure:"-"` // not from config file
}

var validate = validator.New()

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	// A .env next to the working directory only fills variables not already set.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CHATSTATS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("listen-addr", defaultListenAddr)
	v.SetDefault("max-line-size", defaultMaxLineSize)
	v.SetDefault("max-upload-bytes", defaultMaxUploadBytes)
	v.SetDefault("chart-width", defaultChartWidth)
	v.SetDefault("chart-height", defaultChartHeight)
	v.SetDefault("log-file", filepath.Join(home, ".local", "state", "chatstats", "chatstats.log"))
	v.SetDefault("reverse-scroll-wheel", false)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "chatstats", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if _, err := os.Stat(v.ConfigFileUsed()); err == nil {
		cfg.ConfigPath = v.ConfigFileUsed()
	}

	if strings.HasPrefix(cfg.LogFile, "~/") {
		cfg.LogFile = filepath.Join(home, cfg.LogFile[2:])
	}

	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c appConfig) geometry() histogram.Geometry {
	g := histogram.DefaultGeometry
	g.Width = float64(c.ChartWidth)
	g.Height = float64(c.ChartHeight)
	return g
}

func (c appConfig) shellConfig() appshell.Config {
	return appshell.Config{Source: chatsource.Config{MaxLineSize: c.MaxLineSize}}
}

func (c appConfig) serverConfig() httpserver.Config {
	return httpserver.Config{MaxUploadBytes: c.MaxUploadBytes, Geometry: c.geometry()}
}
