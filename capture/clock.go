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
	"math"
	"time"
)

// Phase is the stage of a capture session.
type Phase int

const (
	PhaseCountdown Phase = iota
	PhaseRecording
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseCountdown:
		return "countdown"
	case PhaseRecording:
		return "recording"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// Default session timing.
const (
	DefaultCountdown = 5 * time.Second
	DefaultRecord    = 30 * time.Second
)

// NewClock returns a Clock for a session that started at start.
func NewClock(start time.Time, countdown, record time.Duration) *Clock {
	return &Clock{
		start:     start,
		countdown: countdown,
		record:    record,
		phase:     PhaseCountdown,
	}
}

// Clock maps time elapsed since the session start to a Phase. Phases
// only move forward and PhaseFinished is terminal.
type Clock struct {
	start     time.Time
	countdown time.Duration
	record    time.Duration
	phase     Phase
}

// PhaseAt returns the phase for an elapsed time. Both boundaries of
// the recording window are inclusive.
func (c *Clock) PhaseAt(elapsed time.Duration) Phase {
	switch {
	case elapsed < c.countdown:
		return PhaseCountdown
	case elapsed <= c.countdown+c.record:
		return PhaseRecording
	default:
		return PhaseFinished
	}
}

// Elapsed returns the time since the session started.
func (c *Clock) Elapsed(now time.Time) time.Duration {
	return now.Sub(c.start)
}

// Advance moves the clock to now and returns the current phase.
func (c *Clock) Advance(now time.Time) Phase {
	if p := c.PhaseAt(c.Elapsed(now)); p > c.phase {
		c.phase = p
	}
	return c.phase
}

// Phase returns the phase reached by the last Advance.
func (c *Clock) Phase() Phase {
	return c.phase
}

// CountdownRemaining returns the whole seconds left before recording
// starts, for display. ok is false outside the countdown.
func (c *Clock) CountdownRemaining(elapsed time.Duration) (secs int, ok bool) {
	if c.PhaseAt(elapsed) != PhaseCountdown {
		return 0, false
	}
	return int(c.countdown.Seconds() - floorSeconds(elapsed)), true
}

// RecordingRemaining returns the whole seconds left before the session
// finishes. It is only reported once elapsed is past the record length,
// so the display shows a closing countdown rather than a timer for the
// whole recording.
func (c *Clock) RecordingRemaining(elapsed time.Duration) (secs int, ok bool) {
	if c.PhaseAt(elapsed) != PhaseRecording || elapsed <= c.record {
		return 0, false
	}
	return int((c.countdown + c.record).Seconds() - floorSeconds(elapsed)), true
}

func floorSeconds(d time.Duration) float64 {
	return math.Floor(d.Seconds())
}
