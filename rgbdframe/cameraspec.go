// Copyright 2026 The Cacophony Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package rgbdframe

// Interface that all color and depth camera implementations should implement
type CameraSpec interface {
	ResX() int
	ResY() int
	FPS() int
}

// Geometry is a fixed CameraSpec. The geometry of a recording session
// never changes once the session has started.
type Geometry struct {
	Width     int
	Height    int
	FrameRate int
}

// DefaultGeometry is the 640x480 @ 30Hz layout shared by the color
// camera and the depth sensor of the rig.
var DefaultGeometry = Geometry{Width: 640, Height: 480, FrameRate: 30}

func (g Geometry) ResX() int { return g.Width }
func (g Geometry) ResY() int { return g.Height }
func (g Geometry) FPS() int  { return g.FrameRate }
