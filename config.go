package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"flipbook/internal/document"
	"flipbook/internal/geom"
	"flipbook/internal/logging"
)

const configName = ".flipbook.toml"

type Config struct {
	SaveDirectory   string  `toml:"save_directory"`
	CanvasWidth     float64 `toml:"canvas_width"`
	CanvasHeight    float64 `toml:"canvas_height"`
	FramesPerSecond float64 `toml:"frames_per_second"`
	LineWidth       float64 `toml:"line_width"`
	GenerateWorkers int     `toml:"generate_workers"`
	Background      string  `toml:"background"`
	StampFrameNames bool    `toml:"stamp_frame_names"`
	Confirmations   bool    `toml:"confirmations"`
	LogFile         string  `toml:"log_file"`
	LogDebug        bool    `toml:"log_debug"`
}

func defaultConfig() *Config {
	return &Config{
		CanvasWidth:     320,
		CanvasHeight:    240,
		FramesPerSecond: document.DefaultFramesPerSecond,
		LineWidth:       10,
		GenerateWorkers: document.DefaultGenerateWorkers,
		Background:      "#ffffff",
		Confirmations:   true,
	}
}

// loadConfig reads ~/.flipbook.toml. It never fails: anything missing or
// unreadable keeps its default.
func loadConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig()
	}
	config, err := loadConfigFile(filepath.Join(homeDir, configName), homeDir)
	if err != nil {
		logging.L().Warn("config ignored", zap.Error(err))
		return defaultConfig()
	}
	return config
}

func loadConfigFile(path, homeDir string) (*Config, error) {
	config := defaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	config.SaveDirectory = expandPath(config.SaveDirectory, homeDir)
	config.LogFile = expandPath(config.LogFile, homeDir)
	config.normalize()
	return config, nil
}

func expandPath(value, homeDir string) string {
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "~") {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	d := defaultConfig()
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		c.CanvasWidth, c.CanvasHeight = d.CanvasWidth, d.CanvasHeight
	}
	if c.FramesPerSecond <= 0 {
		c.FramesPerSecond = d.FramesPerSecond
	}
	if c.LineWidth <= 0 {
		c.LineWidth = d.LineWidth
	}
	if c.GenerateWorkers <= 0 {
		c.GenerateWorkers = d.GenerateWorkers
	}
	if _, err := geom.ParseHex(c.Background); err != nil {
		c.Background = d.Background
	}
}

func (c *Config) CanvasSize() geom.Size {
	return geom.Size{Width: c.CanvasWidth, Height: c.CanvasHeight}
}

func (c *Config) BackgroundColor() geom.Color {
	bg, err := geom.ParseHex(c.Background)
	if err != nil {
		return geom.White
	}
	return bg
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}
