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

package capture

import "time"

const (
	fpsWindow    = 10
	fpsSmoothing = 0.9
	nominalFPS   = 30.0
)

// NewFrameRateEstimator returns an estimator whose first window starts
// at start. It reports the nominal 30fps until a window completes.
func NewFrameRateEstimator(start time.Time) *FrameRateEstimator {
	return &FrameRateEstimator{
		smoothed: nominalFPS,
		last:     start,
	}
}

// FrameRateEstimator keeps an exponential moving average of the frame
// rate, sampled once every 10 updates.
type FrameRateEstimator struct {
	smoothed float64
	last     time.Time
	count    int
}

// Update records one tick at now and returns the smoothed frame rate.
func (e *FrameRateEstimator) Update(now time.Time) float64 {
	e.count++
	if e.count%fpsWindow != 0 {
		return e.smoothed
	}
	dt := now.Sub(e.last).Seconds()
	e.last = now
	if dt > 0 {
		fps := fpsWindow / dt
		e.smoothed = e.smoothed*fpsSmoothing + fps*(1-fpsSmoothing)
	}
	return e.smoothed
}

// FPS returns the current smoothed frame rate.
func (e *FrameRateEstimator) FPS() float64 {
	return e.smoothed
}
