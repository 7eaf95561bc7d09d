// Copyright 2026 The Cacophony Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package rgbdframe

import "time"

type Telemetry struct {
	Tick       int
	CapturedAt time.Time
	FPS        float64
}
