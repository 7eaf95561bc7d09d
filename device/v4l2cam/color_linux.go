//go:build linux

// Copyright 2026 The Cacophony Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

// Package v4l2cam reads color frames from a V4L2 webcam in MJPEG mode.
package v4l2cam

import (
	"bytes"
	"context"
	"image/jpeg"

	"github.com/pkg/errors"
	v4l2dev "github.com/vladimirvivien/go4vl/device"
	"github.com/vladimirvivien/go4vl/v4l2"

	"github.com/TheCacophonyProject/go-rgbd/device"
	"github.com/TheCacophonyProject/go-rgbd/rgbdframe"
)

// New returns a ColorSource for the V4L2 device at path, e.g. /dev/video0.
func New(path string, c rgbdframe.CameraSpec) *ColorSource {
	return &ColorSource{path: path, spec: c}
}

// ColorSource streams MJPEG frames and decodes each one to RGB.
type ColorSource struct {
	path   string
	spec   rgbdframe.CameraSpec
	dev    *v4l2dev.Device
	frames <-chan []byte
	ctx    context.Context
	cancel context.CancelFunc
}

var _ device.ColorSource = (*ColorSource)(nil)

func (s *ColorSource) Open(ctx context.Context) error {
	dev, err := v4l2dev.Open(
		s.path,
		v4l2dev.WithBufferSize(1),
		v4l2dev.WithPixFormat(v4l2.PixFormat{
			PixelFormat: v4l2.PixelFmtMJPEG,
			Width:       uint32(s.spec.ResX()),
			Height:      uint32(s.spec.ResY()),
		}),
	)
	if err != nil {
		return errors.Wrapf(err, "open %s", s.path)
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	if err := dev.Start(s.ctx); err != nil {
		s.cancel()
		dev.Close()
		return errors.Wrapf(err, "start %s", s.path)
	}
	s.dev = dev
	s.frames = dev.GetOutput()
	return nil
}

func (s *ColorSource) Read() (*rgbdframe.ColorFrame, error) {
	if s.dev == nil {
		return nil, device.ErrNotOpen
	}
	select {
	case buf, ok := <-s.frames:
		if !ok {
			return nil, errors.Errorf("%s: frame stream closed", s.path)
		}
		img, err := jpeg.Decode(bytes.NewReader(buf))
		if err != nil {
			return nil, errors.Wrapf(err, "%s: decode frame", s.path)
		}
		return rgbdframe.ColorFrameFromImage(s.spec, img)
	case <-s.ctx.Done():
		return nil, s.ctx.Err()
	}
}

func (s *ColorSource) Close() error {
	if s.dev == nil {
		return nil
	}
	s.cancel()
	err := s.dev.Close()
	s.dev = nil
	return errors.Wrapf(err, "close %s", s.path)
}
