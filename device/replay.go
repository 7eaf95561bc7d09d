// Copyright 2026 The Cacophony Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package device

import (
	"bytes"
	"context"
	"image/jpeg"
	"io"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	rgbd "github.com/TheCacophonyProject/go-rgbd"
	"github.com/TheCacophonyProject/go-rgbd/rgbdframe"
)

// replay walks the <index><ext> files of a directory in index order.
type replay struct {
	fs      afero.Fs
	dir     string
	ext     string
	pace    *pacer
	indexes []int
	next    int
}

func (r *replay) open(ctx context.Context, fps int) error {
	indexes, err := rgbd.ListIndexed(r.fs, r.dir, r.ext)
	if err != nil {
		return errors.Wrapf(err, "list %s", r.dir)
	}
	if len(indexes) == 0 {
		return errors.Errorf("no %s files in %s", r.ext, r.dir)
	}
	r.indexes = indexes
	r.next = 0
	r.pace = newPacer(ctx, fps)
	return nil
}

func (r *replay) readNext() ([]byte, error) {
	if r.pace == nil {
		return nil, ErrNotOpen
	}
	if r.next >= len(r.indexes) {
		return nil, io.EOF
	}
	if err := r.pace.wait(); err != nil {
		return nil, err
	}
	name := filepath.Join(r.dir, strconv.Itoa(r.indexes[r.next])+r.ext)
	r.next++
	return afero.ReadFile(r.fs, name)
}

func (r *replay) close() error {
	if r.pace != nil {
		r.pace.stop()
		r.pace = nil
	}
	return nil
}

// NewRawReplaySource returns a DepthSource replaying the raw sensor
// dumps <index>.raw found in dir. Running out of dumps is reported as
// io.EOF. Buffer lengths are not checked here; the decoder rejects
// dumps that do not match the session geometry.
func NewRawReplaySource(fs afero.Fs, dir string, fps int) *RawReplaySource {
	return &RawReplaySource{
		replay: replay{fs: fs, dir: dir, ext: ".raw"},
		fps:    fps,
	}
}

// RawReplaySource feeds previously dumped sensor buffers through the
// normal decoding path.
type RawReplaySource struct {
	replay
	fps int
}

func (s *RawReplaySource) Open(ctx context.Context) error {
	return s.open(ctx, s.fps)
}

func (s *RawReplaySource) Read() ([]byte, error) {
	return s.readNext()
}

func (s *RawReplaySource) Close() error {
	return s.close()
}

// NewJPEGReplaySource returns a ColorSource replaying the <index>.jpg
// images found in dir, such as the JPEGImages folder of an earlier
// recording.
func NewJPEGReplaySource(fs afero.Fs, dir string, c rgbdframe.CameraSpec, fps int) *JPEGReplaySource {
	return &JPEGReplaySource{
		replay: replay{fs: fs, dir: dir, ext: ".jpg"},
		fps:    fps,
		spec:   c,
	}
}

// JPEGReplaySource decodes color frames from a directory of JPEGs.
type JPEGReplaySource struct {
	replay
	fps  int
	spec rgbdframe.CameraSpec
}

func (s *JPEGReplaySource) Open(ctx context.Context) error {
	return s.open(ctx, s.fps)
}

func (s *JPEGReplaySource) Read() (*rgbdframe.ColorFrame, error) {
	data, err := s.readNext()
	if err != nil {
		return nil, err
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "decode frame %d", s.indexes[s.next-1])
	}
	return rgbdframe.ColorFrameFromImage(s.spec, img)
}

func (s *JPEGReplaySource) Close() error {
	return s.close()
}
