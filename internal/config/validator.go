package config

import (
	"fmt"
	"image"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("camera size must be positive, got %dx%d", c.Camera.Width, c.Camera.Height)
	}
	if c.Camera.StartupSettleMS < 0 || c.Camera.ResetSettleMS < 0 {
		return fmt.Errorf("camera settle times must be non-negative")
	}

	sensor := c.Camera.SensorWindow.Rectangle()
	frame := image.Rect(0, 0, c.Camera.Width, c.Camera.Height)
	if !sensor.Empty() && !sensor.In(frame) {
		return fmt.Errorf("camera.sensor_window %v must lie inside the %dx%d frame", c.Camera.SensorWindow, c.Camera.Width, c.Camera.Height)
	}

	if err := c.Detection.Classifier().Validate(); err != nil {
		return fmt.Errorf("detection: %w", err)
	}
	if !sensor.Empty() {
		bounds := image.Rect(0, 0, sensor.Dx(), sensor.Dy())
		if !c.Detection.Window.Rectangle().In(bounds) {
			return fmt.Errorf("detection.window %v must lie inside the %dx%d sensor window", c.Detection.Window, sensor.Dx(), sensor.Dy())
		}
	}

	if err := c.Stability.Validate(); err != nil {
		return fmt.Errorf("stability: %w", err)
	}
	if err := c.Watchdog.Validate(); err != nil {
		return fmt.Errorf("watchdog: %w", err)
	}

	opts, err := c.Serial.PortOptions.Normalize()
	if err != nil {
		return fmt.Errorf("serial: %w", err)
	}
	c.Serial.PortOptions = opts

	if c.Store.RetentionDays < 0 {
		return fmt.Errorf("store.retention_days must be non-negative, got %d", c.Store.RetentionDays)
	}

	if c.Plugins.Dir != "" && c.Plugins.TimeoutMS <= 0 {
		return fmt.Errorf("plugins.timeout_ms must be positive, got %d", c.Plugins.TimeoutMS)
	}

	if len(c.Classes) > 0 {
		if _, err := c.ClassSet(); err != nil {
			return fmt.Errorf("classes: %w", err)
		}
	}

	return nil
}
