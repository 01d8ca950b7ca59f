package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/jigsaw"
)

// config holds every demo setting. Values come from an optional YAML file
// and are then overridden by explicitly set flags.
type config struct {
	Image    string  `yaml:"image"`
	Name     string  `yaml:"name"`
	Load     string  `yaml:"load"`
	Gallery  string  `yaml:"gallery"`
	Pieces   int     `yaml:"pieces"`
	Seed     uint64  `yaml:"seed"`
	Workers  int     `yaml:"workers"`
	Shadow   bool    `yaml:"shadow"`
	Out      string  `yaml:"out"`
	Start    string  `yaml:"start"`
	Scale    float64 `yaml:"scale"`
	Lang     string  `yaml:"lang"`
	LogLevel string  `yaml:"log_level"`

	BoardWidth float64 `yaml:"board_width"`
	TrayWidth  float64 `yaml:"tray_width"`
}

func defaultConfig() config {
	return config{
		Gallery:    "jigsaw-gallery.json",
		Pieces:     24,
		Shadow:     true,
		Out:        "jigsaw.png",
		Scale:      1,
		Lang:       "en",
		LogLevel:   "info",
		BoardWidth: jigsaw.DefaultBoardWidth,
		TrayWidth:  jigsaw.DefaultTrayWidth,
	}
}

// loadConfig reads a YAML file on top of the defaults. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c config) validate() error {
	switch {
	case c.Image == "" && c.Load == "":
		return errors.New("config: one of image or load is required")
	case c.Image != "" && c.Load != "":
		return errors.New("config: image and load are mutually exclusive")
	case c.Pieces < 1:
		return fmt.Errorf("config: pieces must be positive, got %d", c.Pieces)
	case c.Scale <= 0:
		return fmt.Errorf("config: scale must be positive, got %v", c.Scale)
	case c.Out == "":
		return errors.New("config: out is required")
	case c.Load != "" && c.Gallery == "":
		return errors.New("config: load needs a gallery")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// options converts the config into session options.
func (c config) options() []jigsaw.Option {
	opts := []jigsaw.Option{
		jigsaw.WithBoardWidth(c.BoardWidth),
		jigsaw.WithTrayWidth(c.TrayWidth),
		jigsaw.WithWorkers(c.Workers),
		jigsaw.WithShadow(c.Shadow),
		jigsaw.WithOversample(2 * c.Scale),
	}
	if c.Seed != 0 {
		opts = append(opts, jigsaw.WithSeed(c.Seed))
	}
	return opts
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("config: unknown log level %q", s)
}
