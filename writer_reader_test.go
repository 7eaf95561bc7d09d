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
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/go-rgbd/rgbdframe"
)

func makeTestFrames(camera rgbdframe.CameraSpec, seed int) (*rgbdframe.ColorFrame, *rgbdframe.DepthFrame) {
	color := rgbdframe.NewColorFrame(camera)
	depth := rgbdframe.NewDepthFrame(camera)
	for y := 0; y < camera.ResY(); y++ {
		for x := 0; x < camera.ResX(); x++ {
			// Flat color survives JPEG well enough to compare loosely.
			color.Set(x, y, 128, 64, 32)
			depth.Pix[y][x] = uint16(seed*1000 + y*camera.ResX() + x)
		}
	}
	depth.Pix[0][0] = 65535
	return color, depth
}

func newTestSession(t *testing.T, camera rgbdframe.CameraSpec, frames int) (*afero.Afero, *Writer) {
	afs := &afero.Afero{Fs: afero.NewMemMapFs()}
	w := NewWriter(afs, "rec/mug", WithJPEGQuality(90))
	require.NoError(t, w.Prepare())
	in := DefaultIntrinsics()
	in.Width, in.Height = camera.ResX(), camera.ResY()
	require.NoError(t, w.WriteIntrinsics(in))
	for i := 0; i < frames; i++ {
		color, depth := makeTestFrames(camera, i)
		require.NoError(t, w.WriteFrame(i, color, depth))
	}
	return afs, w
}

func TestWriterLayout(t *testing.T) {
	camera := new(TestCamera)
	afs, w := newTestSession(t, camera, 12)
	assert.Equal(t, 12, w.Frames())

	for _, name := range []string{"0.jpg", "9.jpg", "10.jpg", "11.jpg"} {
		ok, err := afs.Exists(filepath.Join("rec/mug", ColorDir, name))
		require.NoError(t, err)
		assert.True(t, ok, name)
	}
	for _, name := range []string{"0.png", "11.png"} {
		ok, err := afs.Exists(filepath.Join("rec/mug", DepthDir, name))
		require.NoError(t, err)
		assert.True(t, ok, name)
	}
	ok, _ := afs.Exists("rec/mug/JPEGImages/00.jpg")
	assert.False(t, ok)
	assert.Equal(t, filepath.Join("rec/mug", "depth", "3.png"), w.DepthPath(3))
	assert.Equal(t, filepath.Join("rec/mug", "JPEGImages", "3.jpg"), w.ColorPath(3))
}

func TestWriterRejectsNegativeIndex(t *testing.T) {
	camera := new(TestCamera)
	_, w := newTestSession(t, camera, 0)
	color, depth := makeTestFrames(camera, 0)
	assert.Error(t, w.WriteFrame(-1, color, depth))
	assert.Equal(t, 0, w.Frames())
}

func TestIntrinsicsKeys(t *testing.T) {
	afs, _ := newTestSession(t, new(TestCamera), 0)
	data, err := afs.ReadFile("rec/mug/intrinsics.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"fx":553.797,"fy":553.722,"ppx":320,"ppy":240,"height":6,"width":8,"depth_scale":0.001}`, string(data))
}

func TestDepthRoundTrip(t *testing.T) {
	camera := new(TestCamera)
	afs, _ := newTestSession(t, camera, 3)

	r, err := NewReader(afs, "rec/mug")
	require.NoError(t, err)
	assert.Equal(t, camera.ResX(), r.ResX())
	assert.Equal(t, camera.ResY(), r.ResY())

	frameD := r.EmptyFrame()
	for i := 0; i < 3; i++ {
		_, depth := makeTestFrames(camera, i)
		require.NoError(t, r.ReadDepth(i, frameD))
		assert.Equal(t, depth.Pix, frameD.Pix)
	}
	assert.Error(t, r.ReadDepth(3, frameD))
}

func TestColorRoundTrip(t *testing.T) {
	camera := new(TestCamera)
	afs, _ := newTestSession(t, camera, 1)

	r, err := NewReader(afs, "rec/mug")
	require.NoError(t, err)
	color, err := r.ReadColor(0)
	require.NoError(t, err)
	require.Equal(t, camera.ResX(), color.Width)
	require.Equal(t, camera.ResY(), color.Height)
	assert.InDelta(t, 128, int(color.Pix[0]), 8)
	assert.InDelta(t, 64, int(color.Pix[1]), 8)
	assert.InDelta(t, 32, int(color.Pix[2]), 8)
}

func TestReaderFrameCount(t *testing.T) {
	afs, _ := newTestSession(t, new(TestCamera), 5)
	r, err := NewReader(afs, "rec/mug")
	require.NoError(t, err)
	c, err := r.FrameCount()
	require.NoError(t, err)
	assert.Equal(t, 5, c)
	require.NoError(t, r.Verify())
	_, ok := r.Manifest()
	assert.False(t, ok)
}

func TestManifestRoundTrip(t *testing.T) {
	afs, w := newTestSession(t, new(TestCamera), 2)
	started := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	m := Manifest{
		SessionID: "3f2504e0-4f89-11d3-9a0c-0305e82c3301",
		Started:   started,
		Ended:     started.Add(35 * time.Second),
		Reason:    "finished",
		Frames:    2,
		Ticks:     40,
		FPS:       29.7,
		Countdown: 5,
		Record:    30,
	}
	require.NoError(t, w.WriteManifest(m))

	r, err := NewReader(afs, "rec/mug")
	require.NoError(t, err)
	got, ok := r.Manifest()
	require.True(t, ok)
	assert.True(t, m.Started.Equal(got.Started))
	assert.True(t, m.Ended.Equal(got.Ended))
	got.Started, got.Ended = m.Started, m.Ended
	assert.Equal(t, m, got)
	assert.Equal(t, 30, r.FPS())
	require.NoError(t, r.Verify())

	m.Frames = 3
	require.NoError(t, w.WriteManifest(m))
	r, err = NewReader(afs, "rec/mug")
	require.NoError(t, err)
	assert.Error(t, r.Verify())
}

func TestVerifyDetectsGaps(t *testing.T) {
	afs, _ := newTestSession(t, new(TestCamera), 4)
	require.NoError(t, afs.Remove("rec/mug/depth/2.png"))
	require.NoError(t, afs.Remove("rec/mug/JPEGImages/2.jpg"))

	r, err := NewReader(afs, "rec/mug")
	require.NoError(t, err)
	assert.EqualError(t, r.Verify(), "depth frame 2 missing")

	require.NoError(t, afs.Remove("rec/mug/JPEGImages/3.jpg"))
	assert.EqualError(t, r.Verify(), "3 depth frames but 2 color frames")
}

func TestReaderNeedsIntrinsics(t *testing.T) {
	afs := &afero.Afero{Fs: afero.NewMemMapFs()}
	require.NoError(t, NewWriter(afs, "empty").Prepare())
	_, err := NewReader(afs, "empty")
	assert.Error(t, err)
}

func TestListIndexed(t *testing.T) {
	afs := &afero.Afero{Fs: afero.NewMemMapFs()}
	for _, name := range []string{"10.png", "2.png", "0.png", "007.png", "x.png", "3.jpg", "-1.png"} {
		require.NoError(t, afs.WriteFile(filepath.Join("d", name), []byte{0}, 0644))
	}
	require.NoError(t, afs.MkdirAll("d/5.png", 0755))

	got, err := ListIndexed(afs, "d", ".png")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 10}, got)
}

// faultyFs fails to create files with the extension createErrExt and
// returns files whose writes fail for writeErrExt.
type faultyFs struct {
	afero.Fs
	createErrExt string
	writeErrExt  string
}

func (fs *faultyFs) Create(name string) (afero.File, error) {
	switch filepath.Ext(name) {
	case fs.createErrExt:
		return nil, errors.New("disk full")
	case fs.writeErrExt:
		f, err := fs.Fs.Create(name)
		if err != nil {
			return nil, err
		}
		return &failingFile{File: f}, nil
	}
	return fs.Fs.Create(name)
}

type failingFile struct {
	afero.File
}

func (f *failingFile) Write(p []byte) (int, error) {
	if len(p) > 8 {
		f.File.Write(p[:8])
	}
	return 0, errors.New("i/o error")
}

func newFaultyWriter(t *testing.T, fs *faultyFs) (*afero.Afero, *Writer) {
	fs.Fs = afero.NewMemMapFs()
	afs := &afero.Afero{Fs: fs}
	w := NewWriter(afs, "rec")
	require.NoError(t, w.Prepare())
	return afs, w
}

func assertNoFiles(t *testing.T, afs *afero.Afero, names ...string) {
	for _, name := range names {
		ok, err := afs.Exists(name)
		require.NoError(t, err)
		assert.False(t, ok, name)
	}
}

func TestColorCreateFailureRemovesDepth(t *testing.T) {
	camera := new(TestCamera)
	afs, w := newFaultyWriter(t, &faultyFs{createErrExt: ".jpg"})
	color, depth := makeTestFrames(camera, 0)

	err := w.WriteFrame(0, color, depth)
	assert.Error(t, err)
	assert.Equal(t, 0, w.Frames())
	assert.Empty(t, w.Timeline())
	assertNoFiles(t, afs, "rec/depth/0.png", "rec/JPEGImages/0.jpg")
}

func TestColorWriteFailureRemovesPair(t *testing.T) {
	camera := new(TestCamera)
	afs, w := newFaultyWriter(t, &faultyFs{writeErrExt: ".jpg"})
	color, depth := makeTestFrames(camera, 0)

	assert.Error(t, w.WriteFrame(0, color, depth))
	assertNoFiles(t, afs, "rec/depth/0.png", "rec/JPEGImages/0.jpg")
}

func TestDepthWriteFailureLeavesNoFile(t *testing.T) {
	camera := new(TestCamera)
	afs, w := newFaultyWriter(t, &faultyFs{writeErrExt: ".png"})
	color, depth := makeTestFrames(camera, 0)

	assert.Error(t, w.WriteFrame(0, color, depth))
	assertNoFiles(t, afs, "rec/depth/0.png", "rec/JPEGImages/0.jpg")
}

func TestFailedFrameKeepsFolderValid(t *testing.T) {
	camera := new(TestCamera)
	fs := &faultyFs{}
	afs, w := newFaultyWriter(t, fs)
	in := DefaultIntrinsics()
	in.Width, in.Height = camera.ResX(), camera.ResY()
	require.NoError(t, w.WriteIntrinsics(in))
	for i := 0; i < 2; i++ {
		color, depth := makeTestFrames(camera, i)
		require.NoError(t, w.WriteFrame(i, color, depth))
	}
	fs.createErrExt = ".jpg"
	color, depth := makeTestFrames(camera, 2)
	require.Error(t, w.WriteFrame(2, color, depth))
	require.NoError(t, w.WriteManifest(Manifest{Reason: "error", Frames: w.Frames()}))

	r, err := NewReader(afs, "rec")
	require.NoError(t, err)
	require.NoError(t, r.Verify())
}

func TestStartSessionWritesIntrinsics(t *testing.T) {
	afs := &afero.Afero{Fs: afero.NewMemMapFs()}
	in := DefaultIntrinsics()
	in.Fx = 600
	w := NewWriter(afs, "rec", WithIntrinsics(in))
	require.NoError(t, w.Prepare())
	assertNoFiles(t, afs, "rec/"+IntrinsicsFile)

	require.NoError(t, w.StartSession())
	r, err := NewReader(afs, "rec")
	require.NoError(t, err)
	assert.Equal(t, in, r.Intrinsics())
}

func TestStartSessionWithoutIntrinsics(t *testing.T) {
	afs := &afero.Afero{Fs: afero.NewMemMapFs()}
	w := NewWriter(afs, "rec")
	require.NoError(t, w.Prepare())
	require.NoError(t, w.StartSession())
	assertNoFiles(t, afs, "rec/"+IntrinsicsFile)
}

func TestTimelineInManifest(t *testing.T) {
	camera := new(TestCamera)
	afs, w := newTestSession(t, camera, 0)
	captured := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	for i := 0; i < 3; i++ {
		color, depth := makeTestFrames(camera, i)
		depth.Status.Tick = 10 + i
		depth.Status.CapturedAt = captured.Add(time.Duration(i) * 33 * time.Millisecond)
		depth.Status.FPS = 29.5
		require.NoError(t, w.WriteFrame(i, color, depth))
	}
	timeline := w.Timeline()
	require.Len(t, timeline, 3)
	assert.Equal(t, FrameTiming{Index: 2, Tick: 12, CapturedAt: captured.Add(66 * time.Millisecond), FPS: 29.5}, timeline[2])

	require.NoError(t, w.WriteManifest(Manifest{Reason: "finished", Frames: 3, Timeline: timeline}))
	raw, err := afs.ReadFile(filepath.Join("rec/mug", ManifestFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"captured_at"`)

	r, err := NewReader(afs, "rec/mug")
	require.NoError(t, err)
	m, ok := r.Manifest()
	require.True(t, ok)
	require.Len(t, m.Timeline, 3)
	for i, ft := range m.Timeline {
		assert.Equal(t, i, ft.Index)
		assert.Equal(t, 10+i, ft.Tick)
		assert.True(t, timeline[i].CapturedAt.Equal(ft.CapturedAt))
	}
}
