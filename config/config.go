// Copyright 2026 The Cacophony Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	rgbd "github.com/TheCacophonyProject/go-rgbd"
	"github.com/TheCacophonyProject/go-rgbd/rgbdframe"
)

// Device drivers.
const (
	DriverV4L2      = "v4l2"
	DriverSynthetic = "synthetic"
	DriverReplay    = "replay"
)

// Config holds the settings of a recording session. Fields may be
// loaded from a YAML file and overridden by command-line flags.
type Config struct {
	Countdown   time.Duration `yaml:"countdown"`
	Record      time.Duration `yaml:"record"`
	Width       int           `yaml:"width"`
	Height      int           `yaml:"height"`
	JPEGQuality int           `yaml:"jpeg_quality"`
	LogLevel    string        `yaml:"log_level"`
	MetricsFile string        `yaml:"metrics_file"`

	Color      DeviceConfig     `yaml:"color"`
	Depth      DeviceConfig     `yaml:"depth"`
	Intrinsics IntrinsicsConfig `yaml:"intrinsics"`
}

// DeviceConfig selects and configures one frame source.
type DeviceConfig struct {
	Driver string `yaml:"driver"`
	Device string `yaml:"device"` // v4l2 device node
	Path   string `yaml:"path"`   // replay directory
	FPS    int    `yaml:"fps"`    // pacing for synthetic and replay sources
}

// IntrinsicsConfig is the color camera model written to intrinsics.json.
type IntrinsicsConfig struct {
	Fx         float64 `yaml:"fx"`
	Fy         float64 `yaml:"fy"`
	Ppx        float64 `yaml:"ppx"`
	Ppy        float64 `yaml:"ppy"`
	DepthScale float64 `yaml:"depth_scale"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	in := rgbd.DefaultIntrinsics()
	return &Config{
		Countdown:   5 * time.Second,
		Record:      30 * time.Second,
		Width:       rgbdframe.DefaultGeometry.Width,
		Height:      rgbdframe.DefaultGeometry.Height,
		JPEGQuality: rgbd.DefaultJPEGQuality,
		LogLevel:    "info",
		Color: DeviceConfig{
			Driver: DriverV4L2,
			Device: "/dev/video0",
			FPS:    rgbdframe.DefaultGeometry.FrameRate,
		},
		Depth: DeviceConfig{
			Driver: DriverSynthetic,
			FPS:    rgbdframe.DefaultGeometry.FrameRate,
		},
		Intrinsics: IntrinsicsConfig{
			Fx:         in.Fx,
			Fy:         in.Fy,
			Ppx:        in.Ppx,
			Ppy:        in.Ppy,
			DepthScale: in.DepthScale,
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Countdown < 0 {
		return errors.Errorf("countdown must not be negative, got %v", c.Countdown)
	}
	if c.Record <= 0 {
		return errors.Errorf("record must be positive, got %v", c.Record)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("invalid resolution %dx%d", c.Width, c.Height)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return errors.Errorf("jpeg_quality must be 1-100, got %d", c.JPEGQuality)
	}
	if c.Intrinsics.DepthScale <= 0 {
		return errors.Errorf("intrinsics.depth_scale must be positive, got %v", c.Intrinsics.DepthScale)
	}
	if err := c.Color.validate("color", DriverV4L2, DriverSynthetic, DriverReplay); err != nil {
		return err
	}
	return c.Depth.validate("depth", DriverSynthetic, DriverReplay)
}

func (d DeviceConfig) validate(name string, drivers ...string) error {
	known := false
	for _, driver := range drivers {
		if d.Driver == driver {
			known = true
		}
	}
	if !known {
		return errors.Errorf("%s.driver must be one of %v, got %q", name, drivers, d.Driver)
	}
	switch d.Driver {
	case DriverV4L2:
		if d.Device == "" {
			return errors.Errorf("%s.device is required for the v4l2 driver", name)
		}
	case DriverReplay:
		if d.Path == "" {
			return errors.Errorf("%s.path is required for the replay driver", name)
		}
	}
	if d.FPS < 0 {
		return errors.Errorf("%s.fps must not be negative, got %d", name, d.FPS)
	}
	return nil
}

// Geometry returns the fixed frame geometry of the session.
func (c *Config) Geometry() rgbdframe.Geometry {
	return rgbdframe.Geometry{Width: c.Width, Height: c.Height, FrameRate: c.Color.FPS}
}

// CameraIntrinsics returns the intrinsics sidecar for the session.
func (c *Config) CameraIntrinsics() rgbd.Intrinsics {
	return rgbd.Intrinsics{
		Fx:         c.Intrinsics.Fx,
		Fy:         c.Intrinsics.Fy,
		Ppx:        c.Intrinsics.Ppx,
		Ppy:        c.Intrinsics.Ppy,
		Height:     c.Height,
		Width:      c.Width,
		DepthScale: c.Intrinsics.DepthScale,
	}
}

// Load reads the YAML file at path on fs over the defaults. An empty
// path gives the defaults.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}
