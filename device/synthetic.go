// Copyright 2026 The Cacophony Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package device

import (
	"context"

	"github.com/TheCacophonyProject/go-rgbd/rgbdframe"
)

// NewSyntheticColorSource returns a source of moving test pattern
// frames delivered at fps. An fps of 0 disables pacing.
func NewSyntheticColorSource(c rgbdframe.CameraSpec, fps int) *SyntheticColorSource {
	return &SyntheticColorSource{spec: c, fps: fps}
}

// SyntheticColorSource renders a scrolling gradient.
type SyntheticColorSource struct {
	spec  rgbdframe.CameraSpec
	fps   int
	pace  *pacer
	count int
}

func (s *SyntheticColorSource) Open(ctx context.Context) error {
	s.pace = newPacer(ctx, s.fps)
	return nil
}

func (s *SyntheticColorSource) Read() (*rgbdframe.ColorFrame, error) {
	if s.pace == nil {
		return nil, ErrNotOpen
	}
	if err := s.pace.wait(); err != nil {
		return nil, err
	}
	frame := rgbdframe.NewColorFrame(s.spec)
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			frame.Set(x, y, uint8(x+s.count), uint8(y), uint8(s.count))
		}
	}
	s.count++
	return frame, nil
}

func (s *SyntheticColorSource) Close() error {
	if s.pace != nil {
		s.pace.stop()
		s.pace = nil
	}
	return nil
}

// NewSyntheticDepthSource returns a source of raw depth buffers
// describing a tilted plane that slowly moves away from the sensor.
func NewSyntheticDepthSource(c rgbdframe.CameraSpec, fps int) *SyntheticDepthSource {
	return &SyntheticDepthSource{spec: c, fps: fps}
}

// SyntheticDepthSource produces buffers in the sensor's dual-plane
// layout so they go through the same decoding as real ones.
type SyntheticDepthSource struct {
	spec  rgbdframe.CameraSpec
	fps   int
	pace  *pacer
	buf   []byte
	count int
}

func (s *SyntheticDepthSource) Open(ctx context.Context) error {
	s.pace = newPacer(ctx, s.fps)
	s.buf = rgbdframe.NewRawDepth(s.spec)
	return nil
}

func (s *SyntheticDepthSource) Read() ([]byte, error) {
	if s.pace == nil {
		return nil, ErrNotOpen
	}
	if err := s.pace.wait(); err != nil {
		return nil, err
	}
	cols := s.spec.ResX()
	for y := 0; y < s.spec.ResY(); y++ {
		for x := 0; x < cols; x++ {
			// 500mm to roughly 4m across the image at depth_scale 0.001.
			mm := 500 + x*5 + y + s.count
			rgbdframe.PutRawSample(s.buf, cols, x, y, uint16(mm%255), uint16(mm/255))
		}
	}
	s.count++
	return s.buf, nil
}

func (s *SyntheticDepthSource) Close() error {
	if s.pace != nil {
		s.pace.stop()
		s.pace = nil
	}
	return nil
}
