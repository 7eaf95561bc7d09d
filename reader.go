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
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/TheCacophonyProject/go-rgbd/rgbdframe"
)

// NewReader opens the recording folder on fs. The intrinsics sidecar
// must be present; the session manifest is optional since a session
// killed hard never gets one.
func NewReader(fs afero.Fs, folder string) (*Reader, error) {
	r := &Reader{fs: fs, folder: folder}
	if err := readJSON(fs, filepath.Join(folder, IntrinsicsFile), &r.intrinsics); err != nil {
		return nil, err
	}
	err := readJSON(fs, filepath.Join(folder, ManifestFile), &r.manifest)
	switch {
	case err == nil:
		r.hasManifest = true
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}
	return r, nil
}

// Reader gives access to the frames of a recording folder.
type Reader struct {
	fs          afero.Fs
	folder      string
	intrinsics  Intrinsics
	manifest    Manifest
	hasManifest bool
}

// Intrinsics returns the intrinsics sidecar of the recording.
func (r *Reader) Intrinsics() Intrinsics {
	return r.intrinsics
}

// Manifest returns the session summary, if one was written.
func (r *Reader) Manifest() (Manifest, bool) {
	return r.manifest, r.hasManifest
}

// ResX returns the x resolution of the recording.
func (r *Reader) ResX() int {
	return r.intrinsics.Width
}

// ResY returns the y resolution of the recording.
func (r *Reader) ResY() int {
	return r.intrinsics.Height
}

// FPS returns the measured frame rate of the recording, rounded. It is
// 0 without a manifest.
func (r *Reader) FPS() int {
	return int(r.manifest.FPS + 0.5)
}

// EmptyFrame returns an initialized DepthFrame sized accordingly to
// the recording.
func (r *Reader) EmptyFrame() *rgbdframe.DepthFrame {
	return rgbdframe.NewDepthFrame(r)
}

// FrameCount returns the number of depth frames in the recording.
func (r *Reader) FrameCount() (int, error) {
	indexes, err := ListIndexed(r.fs, filepath.Join(r.folder, DepthDir), depthExt)
	if err != nil {
		return 0, err
	}
	return len(indexes), nil
}

// ReadDepth decodes depth frame index into out.
func (r *Reader) ReadDepth(index int, out *rgbdframe.DepthFrame) error {
	img, err := r.decode(indexedName(filepath.Join(r.folder, DepthDir), index, depthExt), png.Decode)
	if err != nil {
		return err
	}
	gray, ok := img.(*image.Gray16)
	if !ok {
		return errors.Errorf("depth frame %d is %T, not 16-bit grayscale", index, img)
	}
	b := gray.Bounds()
	if b.Dx() != out.ResX() || b.Dy() != out.ResY() {
		return errors.Errorf("depth frame %d is %dx%d, expected %dx%d", index, b.Dx(), b.Dy(), out.ResX(), out.ResY())
	}
	for y := range out.Pix {
		for x := range out.Pix[y] {
			out.Pix[y][x] = gray.Gray16At(b.Min.X+x, b.Min.Y+y).Y
		}
	}
	return nil
}

// ReadColor decodes color frame index.
func (r *Reader) ReadColor(index int) (*rgbdframe.ColorFrame, error) {
	img, err := r.decode(indexedName(filepath.Join(r.folder, ColorDir), index, colorExt), jpeg.Decode)
	if err != nil {
		return nil, err
	}
	return rgbdframe.ColorFrameFromImage(r, img)
}

// Verify checks that the recording holds complete frame pairs indexed
// 0..n-1 with no gaps.
func (r *Reader) Verify() error {
	depth, err := ListIndexed(r.fs, filepath.Join(r.folder, DepthDir), depthExt)
	if err != nil {
		return err
	}
	color, err := ListIndexed(r.fs, filepath.Join(r.folder, ColorDir), colorExt)
	if err != nil {
		return err
	}
	if len(depth) != len(color) {
		return errors.Errorf("%d depth frames but %d color frames", len(depth), len(color))
	}
	for i := range depth {
		if depth[i] != i {
			return errors.Errorf("depth frame %d missing", i)
		}
		if color[i] != i {
			return errors.Errorf("color frame %d missing", i)
		}
	}
	if r.hasManifest && r.manifest.Frames != len(depth) {
		return errors.Errorf("manifest reports %d frames, found %d", r.manifest.Frames, len(depth))
	}
	return nil
}

func (r *Reader) decode(name string, dec func(io.Reader) (image.Image, error)) (image.Image, error) {
	f, err := r.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := dec(f)
	return img, errors.Wrapf(err, "decode %s", name)
}
