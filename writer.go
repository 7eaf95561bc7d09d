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

package rgbd

import (
	"bufio"
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/TheCacophonyProject/go-rgbd/rgbdframe"
)

// Layout of a recording folder.
const (
	ColorDir       = "JPEGImages"
	DepthDir       = "depth"
	IntrinsicsFile = "intrinsics.json"
	ManifestFile   = "session.json"

	colorExt = ".jpg"
	depthExt = ".png"
)

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithJPEGQuality sets the quality used for color frames.
func WithJPEGQuality(q int) WriterOption {
	return func(w *Writer) {
		w.quality = q
	}
}

// WithIntrinsics sets the intrinsics sidecar written by StartSession.
func WithIntrinsics(in Intrinsics) WriterOption {
	return func(w *Writer) {
		w.intrinsics = &in
	}
}

// NewWriter creates and returns a new Writer for a recording folder.
// Nothing is touched on fs until Prepare is called.
func NewWriter(fs afero.Fs, folder string, opts ...WriterOption) *Writer {
	w := &Writer{
		fs:      fs,
		folder:  folder,
		quality: DefaultJPEGQuality,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.bldr = NewBuilder(w.quality)
	return w
}

// Writer uses a Builder to persist color/depth frame pairs in the
// recording folder layout.
type Writer struct {
	fs      afero.Fs
	folder  string
	quality int
	bldr    *Builder
	frames  int

	intrinsics *Intrinsics
	timeline   []FrameTiming
}

// Prepare creates the color and depth directories.
func (w *Writer) Prepare() error {
	for _, dir := range []string{ColorDir, DepthDir} {
		if err := w.fs.MkdirAll(filepath.Join(w.folder, dir), 0755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	return nil
}

// ColorPath returns the path of the color image for index.
func (w *Writer) ColorPath(index int) string {
	return indexedName(filepath.Join(w.folder, ColorDir), index, colorExt)
}

// DepthPath returns the path of the depth image for index.
func (w *Writer) DepthPath(index int) string {
	return indexedName(filepath.Join(w.folder, DepthDir), index, depthExt)
}

// StartSession is called once the devices of a session are open. It
// writes the intrinsics sidecar, if one was configured.
func (w *Writer) StartSession() error {
	if w.intrinsics == nil {
		return nil
	}
	return w.WriteIntrinsics(*w.intrinsics)
}

// WriteIntrinsics writes the intrinsics sidecar.
func (w *Writer) WriteIntrinsics(in Intrinsics) error {
	return writeJSON(w.fs, filepath.Join(w.folder, IntrinsicsFile), in)
}

// WriteManifest writes the session summary.
func (w *Writer) WriteManifest(m Manifest) error {
	return writeJSON(w.fs, filepath.Join(w.folder, ManifestFile), m)
}

// WriteFrame writes the depth and color images of one frame pair. On
// failure neither image of the pair is left behind.
func (w *Writer) WriteFrame(index int, color *rgbdframe.ColorFrame, depth *rgbdframe.DepthFrame) error {
	if index < 0 {
		return errors.Errorf("negative frame index %d", index)
	}
	err := w.writeFile(w.DepthPath(index), func(out io.Writer) error {
		return w.bldr.WriteDepth(out, depth)
	})
	if err != nil {
		return err
	}
	err = w.writeFile(w.ColorPath(index), func(out io.Writer) error {
		return w.bldr.WriteColor(out, color)
	})
	if err != nil {
		w.fs.Remove(w.DepthPath(index))
		return err
	}
	w.frames++
	w.timeline = append(w.timeline, FrameTiming{
		Index:      index,
		Tick:       depth.Status.Tick,
		CapturedAt: depth.Status.CapturedAt,
		FPS:        depth.Status.FPS,
	})
	return nil
}

// Frames returns the number of frame pairs written so far.
func (w *Writer) Frames() int {
	return w.frames
}

// Timeline returns the capture telemetry of every frame written so far.
func (w *Writer) Timeline() []FrameTiming {
	return append([]FrameTiming(nil), w.timeline...)
}

func (w *Writer) writeFile(name string, encode func(io.Writer) error) error {
	f, err := w.fs.Create(name)
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}
	bw := bufio.NewWriter(f)
	if err := encode(bw); err != nil {
		w.discard(f, name)
		return errors.Wrapf(err, "encode %s", name)
	}
	if err := bw.Flush(); err != nil {
		w.discard(f, name)
		return errors.Wrapf(err, "write %s", name)
	}
	if err := f.Close(); err != nil {
		w.fs.Remove(name)
		return errors.Wrapf(err, "close %s", name)
	}
	return nil
}

// discard drops a partially written file.
func (w *Writer) discard(f afero.File, name string) {
	f.Close()
	w.fs.Remove(name)
}
