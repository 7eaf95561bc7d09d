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
	"time"

	"github.com/google/uuid"
)

// Session is the mutable state of one recording: who it is, when it
// started and where the frame sequence is up to.
type Session struct {
	ID         uuid.UUID
	Started    time.Time
	FrameIndex int
	Ticks      int
}

func newSession(start time.Time) *Session {
	return &Session{
		ID:      uuid.New(),
		Started: start,
	}
}
