// Copyright 2026 The Cacophony Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/TheCacophonyProject/go-rgbd/config"
	"github.com/TheCacophonyProject/go-rgbd/device"
	"github.com/TheCacophonyProject/go-rgbd/device/v4l2cam"
)

func newSources(cfg *config.Config, fs afero.Fs, log logrus.FieldLogger) (device.ColorSource, device.DepthSource, error) {
	geom := cfg.Geometry()

	var color device.ColorSource
	switch cfg.Color.Driver {
	case config.DriverV4L2:
		color = v4l2cam.New(cfg.Color.Device, geom)
	case config.DriverSynthetic:
		color = device.NewSyntheticColorSource(geom, cfg.Color.FPS)
	case config.DriverReplay:
		color = device.NewJPEGReplaySource(fs, cfg.Color.Path, geom, cfg.Color.FPS)
	default:
		return nil, nil, errors.Errorf("unknown color driver %q", cfg.Color.Driver)
	}

	var depth device.DepthSource
	switch cfg.Depth.Driver {
	case config.DriverSynthetic:
		depth = device.NewSyntheticDepthSource(geom, cfg.Depth.FPS)
	case config.DriverReplay:
		depth = device.NewRawReplaySource(fs, cfg.Depth.Path, cfg.Depth.FPS)
	default:
		return nil, nil, errors.Errorf("unknown depth driver %q", cfg.Depth.Driver)
	}

	for name, d := range map[string]config.DeviceConfig{"color": cfg.Color, "depth": cfg.Depth} {
		if d.Driver == config.DriverSynthetic {
			log.WithField("source", name).Warn("using synthetic frames, not a camera")
		}
	}
	return color, depth, nil
}
