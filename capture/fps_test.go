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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameRateNominalUntilFirstWindow(t *testing.T) {
	e := NewFrameRateEstimator(t0)
	for i := 1; i < fpsWindow; i++ {
		assert.Equal(t, 30.0, e.Update(t0.Add(time.Duration(i)*time.Second)))
	}
	assert.Equal(t, 30.0, e.FPS())
}

func TestFrameRateWindows(t *testing.T) {
	step := 40 * time.Millisecond
	window := fpsWindow * step
	e := NewFrameRateEstimator(t0)

	var fps float64
	for i := 1; i <= 10; i++ {
		fps = e.Update(t0.Add(time.Duration(i) * step))
	}
	first := 30*0.9 + (10/window.Seconds())*0.1
	assert.InDelta(t, first, fps, 1e-9)

	// Second window runs at half the rate.
	slow := 2 * step
	base := t0.Add(window)
	for i := 1; i <= 10; i++ {
		fps = e.Update(base.Add(time.Duration(i) * slow))
	}
	second := first*0.9 + (10/(fpsWindow*slow).Seconds())*0.1
	assert.InDelta(t, second, fps, 1e-9)

	// Between samples the value holds.
	assert.Equal(t, fps, e.Update(base.Add(time.Hour)))
}

func TestFrameRateIgnoresEmptyWindow(t *testing.T) {
	e := NewFrameRateEstimator(t0)
	var fps float64
	for i := 0; i < fpsWindow; i++ {
		fps = e.Update(t0)
	}
	assert.Equal(t, 30.0, fps)
}
