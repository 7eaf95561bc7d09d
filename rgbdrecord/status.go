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
	"fmt"
	"io"
	"time"

	"github.com/TheCacophonyProject/go-rgbd/capture"
)

const statusInterval = 100 * time.Millisecond

// statusLine redraws a single terminal line with the session progress.
// Redraws are throttled unless the phase or the timer changes.
type statusLine struct {
	out   io.Writer
	now   func() time.Time
	last  time.Time
	shown capture.Status
	drawn bool
}

func newStatusLine(out io.Writer, now func() time.Time) *statusLine {
	return &statusLine{out: out, now: now}
}

func (s *statusLine) Show(st capture.Status) {
	t := s.now()
	changed := !s.drawn || st.Phase != s.shown.Phase || st.Remaining != s.shown.Remaining || st.ShowTimer != s.shown.ShowTimer
	if !changed && t.Sub(s.last) < statusInterval {
		return
	}
	fmt.Fprintf(s.out, "\r\033[K%s", formatStatus(st))
	s.last = t
	s.shown = st
	s.drawn = true
}

func formatStatus(st capture.Status) string {
	line := st.Phase.String()
	if st.ShowTimer {
		line += fmt.Sprintf(" %ds", st.Remaining)
	}
	line += fmt.Sprintf("  fps %.1f", st.FPS)
	if st.Phase == capture.PhaseRecording {
		line += fmt.Sprintf("  frame %d", st.FrameIndex)
	}
	return line
}
