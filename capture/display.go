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

// Status is what the loop reports to the display once per tick.
type Status struct {
	Phase      Phase
	Remaining  int
	ShowTimer  bool
	FPS        float64
	FrameIndex int
}

// Display shows the progress of a session. Show is called from the
// loop goroutine and must not block for long.
type Display interface {
	Show(Status)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(Status)

func (f DisplayFunc) Show(s Status) { f(s) }

type nopDisplay struct{}

func (nopDisplay) Show(Status) {}
