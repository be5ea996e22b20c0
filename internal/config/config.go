// Package config loads the litmus YAML configuration.
package config

import (
	"fmt"
	"image"
	"os"
	"time"

	"github.com/ayusman/litmus/internal/capture"
	"github.com/ayusman/litmus/internal/classifier"
	"github.com/ayusman/litmus/internal/colorclass"
	"github.com/ayusman/litmus/internal/stability"
	"github.com/ayusman/litmus/internal/transport"
	"github.com/ayusman/litmus/internal/watchdog"
	"gopkg.in/yaml.v3"
)

// Config represents the complete litmus configuration
type Config struct {
	Camera    CameraConfig       `yaml:"camera"`
	Detection DetectionConfig    `yaml:"detection"`
	Stability stability.Config   `yaml:"stability"`
	Watchdog  watchdog.Config    `yaml:"watchdog"`
	Serial    SerialConfig       `yaml:"serial"`
	Server    ServerConfig       `yaml:"server"`
	Store     StoreConfig        `yaml:"store"`
	Plugins   PluginConfig       `yaml:"plugins"`
	// Classes replaces the built-in table when set.
	Classes []colorclass.Class `yaml:"classes,omitempty"`
}

// Rect is a rectangle written as [x, y, w, h].
type Rect [4]int

// Rectangle converts r to an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r[0], r[1], r[0]+r[2], r[1]+r[3])
}

// CameraConfig contains camera settings
type CameraConfig struct {
	Device          int    `yaml:"device"`
	Width           int    `yaml:"width"`
	Height          int    `yaml:"height"`
	Format          string `yaml:"format"`
	SensorWindow    Rect   `yaml:"sensor_window"`
	StartupSettleMS int    `yaml:"startup_settle_ms"`
	ResetSettleMS   int    `yaml:"reset_settle_ms"`
	Light           bool   `yaml:"light"`
	// Replay is a directory of images played instead of the device.
	Replay string `yaml:"replay,omitempty"`
}

// Capture converts the section to capture settings.
func (c CameraConfig) Capture() capture.Config {
	return capture.Config{
		Device:        c.Device,
		Width:         c.Width,
		Height:        c.Height,
		Format:        c.Format,
		Window:        c.SensorWindow.Rectangle(),
		StartupSettle: time.Duration(c.StartupSettleMS) * time.Millisecond,
		ResetSettle:   time.Duration(c.ResetSettleMS) * time.Millisecond,
		Light:         c.Light,
	}
}

// DetectionConfig contains region classification settings. The window is
// relative to the sensor window.
type DetectionConfig struct {
	Window      Rect `yaml:"window"`
	MinPixels   int  `yaml:"min_pixels"`
	MinArea     int  `yaml:"min_area"`
	Step        int  `yaml:"step"`
	MergeMargin int  `yaml:"merge_margin"`
}

// Classifier converts the section to classifier settings.
func (d DetectionConfig) Classifier() classifier.Config {
	return classifier.Config{
		MinPixels:   d.MinPixels,
		MinArea:     d.MinArea,
		Step:        d.Step,
		MergeMargin: d.MergeMargin,
		Window:      d.Window.Rectangle(),
	}
}

// SerialConfig contains the reading link settings. An empty port writes
// readings to stdout.
type SerialConfig struct {
	Port                  string `yaml:"port"`
	transport.PortOptions `yaml:",inline"`
}

// ServerConfig contains HTTP status server settings. An empty address
// disables the server. Stream publishes annotated JPEG frames.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
	Stream    bool   `yaml:"stream"`
}

// StoreConfig contains history database settings. An empty path disables
// history.
type StoreConfig struct {
	Path string `yaml:"path"`
	// RetentionDays prunes older history at startup. Zero keeps everything.
	RetentionDays int `yaml:"retention_days"`
}

// PluginConfig contains reading plugin settings. An empty directory
// disables plugins.
type PluginConfig struct {
	Dir       string `yaml:"dir"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cam := capture.DefaultConfig()
	det := classifier.DefaultConfig()
	return &Config{
		Camera: CameraConfig{
			Device:          cam.Device,
			Width:           cam.Width,
			Height:          cam.Height,
			Format:          cam.Format,
			SensorWindow:    Rect{80, 60, 160, 120},
			StartupSettleMS: int(cam.StartupSettle / time.Millisecond),
			ResetSettleMS:   int(cam.ResetSettle / time.Millisecond),
			Light:           true,
		},
		Detection: DetectionConfig{
			Window:      Rect{det.Window.Min.X, det.Window.Min.Y, det.Window.Dx(), det.Window.Dy()},
			MinPixels:   det.MinPixels,
			MinArea:     det.MinArea,
			Step:        det.Step,
			MergeMargin: det.MergeMargin,
		},
		Stability: stability.DefaultConfig(),
		Watchdog:  watchdog.DefaultConfig(),
		Serial: SerialConfig{
			PortOptions: transport.PortOptions{BaudRate: transport.DefaultBaudRate},
		},
		Server: ServerConfig{
			Addr:   "127.0.0.1:8080",
			Stream: true,
		},
		Store: StoreConfig{
			Path: "litmus.db",
		},
		Plugins: PluginConfig{
			TimeoutMS: 5000,
		},
	}
}

// Load reads a YAML configuration file over the defaults and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ClassSet builds the class registry: the configured table, or the
// built-in one when none is configured.
func (c *Config) ClassSet() (*colorclass.Set, error) {
	if len(c.Classes) == 0 {
		return colorclass.Default(), nil
	}
	return colorclass.NewSet(c.Classes)
}
