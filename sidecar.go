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

package rgbd

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Intrinsics is the color camera model stored next to a recording.
// The JSON keys are fixed; downstream tools read them as-is.
type Intrinsics struct {
	Fx         float64 `json:"fx"`
	Fy         float64 `json:"fy"`
	Ppx        float64 `json:"ppx"`
	Ppy        float64 `json:"ppy"`
	Height     int     `json:"height"`
	Width      int     `json:"width"`
	DepthScale float64 `json:"depth_scale"`
}

// DefaultIntrinsics returns the parameters of the original 640x480 rig.
func DefaultIntrinsics() Intrinsics {
	return Intrinsics{
		Fx:         553.797,
		Fy:         553.722,
		Ppx:        320,
		Ppy:        240,
		Height:     480,
		Width:      640,
		DepthScale: 0.001,
	}
}

// ResX and ResY let Intrinsics stand in for the recording geometry.
func (in Intrinsics) ResX() int { return in.Width }
func (in Intrinsics) ResY() int { return in.Height }

// FPS is not part of the intrinsics sidecar.
func (in Intrinsics) FPS() int { return 0 }

// Manifest summarises a finished session. It is written once, after
// the devices have been released.
type Manifest struct {
	SessionID string    `json:"session_id"`
	Started   time.Time `json:"started"`
	Ended     time.Time `json:"ended"`
	Reason    string    `json:"reason"`
	Frames    int       `json:"frames"`
	Ticks     int       `json:"ticks"`
	FPS       float64   `json:"fps"`
	Countdown float64   `json:"countdown_seconds"`
	Record    float64   `json:"record_seconds"`
	Error     string    `json:"error,omitempty"`

	Timeline []FrameTiming `json:"timeline,omitempty"`
}

// FrameTiming is the capture telemetry of one written frame pair.
type FrameTiming struct {
	Index      int       `json:"index"`
	Tick       int       `json:"tick"`
	CapturedAt time.Time `json:"captured_at"`
	FPS        float64   `json:"fps"`
}

func writeJSON(fs afero.Fs, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return errors.Wrapf(afero.WriteFile(fs, name, data, 0644), "write %s", name)
}

func readJSON(fs afero.Fs, name string, v interface{}) error {
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		return err
	}
	return errors.Wrapf(json.Unmarshal(data, v), "parse %s", name)
}
