package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/hupe1980/segmerge"
	"github.com/hupe1980/segmerge/codec"
	"github.com/hupe1980/segmerge/color"
)

// Config holds the CLI configuration.
type Config struct {
	Codec string
	Log   LogConfig
	Color ColorConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// ColorConfig holds overlay settings.
type ColorConfig struct {
	Palette string
	Alpha   uint8
}

// loadConfig reads configuration from file and env. Env var overrides use
// prefix SEGMERGE_. An explicit path must exist; the default location is
// optional.
func loadConfig(v *viper.Viper, path string) (Config, error) {
	v.SetDefault("codec", codec.Default.Name())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("color.palette", "")
	v.SetDefault("color.alpha", color.DefaultAlpha)

	if path == "" {
		path = os.Getenv("SEGMERGE_CONFIG")
	}

	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "segmerge"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SEGMERGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// newLogger builds the logger described by c.
func (c LogConfig) newLogger(w io.Writer) (*segmerge.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.Format) {
	case "json":
		return segmerge.NewLogger(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return segmerge.NewLogger(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("log.format: unknown format %q", c.Format)
	}
}

// resolveCodec looks up the configured codec name.
func (c Config) resolveCodec() (codec.Codec, error) {
	cd, ok := codec.ByName(c.Codec)
	if !ok {
		return nil, fmt.Errorf("codec: unknown codec %q", c.Codec)
	}
	return cd, nil
}

// options translates the color settings into segmentation options.
func (c ColorConfig) options(cd codec.Codec) ([]segmerge.Option, error) {
	opts := []segmerge.Option{segmerge.WithAlpha(c.Alpha)}

	if c.Palette != "" {
		f, err := os.Open(c.Palette)
		if err != nil {
			return nil, fmt.Errorf("color.palette: %w", err)
		}
		defer f.Close()

		p, err := color.LoadPalette(f, cd)
		if err != nil {
			return nil, fmt.Errorf("color.palette: %w", err)
		}
		opts = append(opts, segmerge.WithPalette(p))
	}

	return opts, nil
}
