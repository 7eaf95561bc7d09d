//go:build !linux

// Copyright 2026 The Cacophony Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package v4l2cam

import (
	"context"

	"github.com/pkg/errors"

	"github.com/TheCacophonyProject/go-rgbd/device"
	"github.com/TheCacophonyProject/go-rgbd/rgbdframe"
)

func New(path string, c rgbdframe.CameraSpec) *ColorSource {
	return &ColorSource{path: path}
}

// ColorSource is only available on linux.
type ColorSource struct {
	path string
}

var _ device.ColorSource = (*ColorSource)(nil)

func (s *ColorSource) Open(ctx context.Context) error {
	return errors.Errorf("%s: v4l2 capture is only supported on linux", s.path)
}

func (s *ColorSource) Read() (*rgbdframe.ColorFrame, error) {
	return nil, device.ErrNotOpen
}

func (s *ColorSource) Close() error { return nil }
