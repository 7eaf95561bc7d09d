// Copyright 2026 The Cacophony Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package device

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rgbd "github.com/TheCacophonyProject/go-rgbd"
	"github.com/TheCacophonyProject/go-rgbd/rgbdframe"
)

var testGeometry = rgbdframe.Geometry{Width: 20, Height: 10, FrameRate: 10}

func TestSyntheticDepthDecodes(t *testing.T) {
	src := NewSyntheticDepthSource(testGeometry, 0)
	_, err := src.Read()
	assert.Equal(t, ErrNotOpen, err)

	require.NoError(t, src.Open(context.Background()))
	defer src.Close()

	dec := rgbd.NewDecoder(testGeometry)
	for n := 0; n < 3; n++ {
		raw, err := src.Read()
		require.NoError(t, err)
		frame, err := dec.Decode(raw)
		require.NoError(t, err)
		// Mirrored: raw column 0 lands in the last output column.
		assert.Equal(t, uint16(500+n), frame.Pix[0][testGeometry.Width-1])
		assert.Equal(t, uint16(500+19*5+9+n), frame.Pix[9][0])
	}
}

func TestSyntheticColor(t *testing.T) {
	src := NewSyntheticColorSource(testGeometry, 0)
	require.NoError(t, src.Open(context.Background()))
	frame, err := src.Read()
	require.NoError(t, err)
	assert.Equal(t, testGeometry.Width, frame.Width)
	assert.Equal(t, testGeometry.Height, frame.Height)
	assert.Len(t, frame.Pix, 20*10*3)
	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
	_, err = src.Read()
	assert.Equal(t, ErrNotOpen, err)
}

func TestSyntheticPacingHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := NewSyntheticColorSource(testGeometry, 1)
	require.NoError(t, src.Open(ctx))
	defer src.Close()

	cancel()
	start := time.Now()
	_, err := src.Read()
	assert.Equal(t, context.Canceled, err)
	assert.True(t, time.Since(start) < 500*time.Millisecond)
}

func TestRawReplayOrder(t *testing.T) {
	afs := &afero.Afero{Fs: afero.NewMemMapFs()}
	require.NoError(t, afs.WriteFile("dumps/10.raw", []byte{10}, 0644))
	require.NoError(t, afs.WriteFile("dumps/2.raw", []byte{2}, 0644))
	require.NoError(t, afs.WriteFile("dumps/1.raw", []byte{1}, 0644))
	require.NoError(t, afs.WriteFile("dumps/notes.txt", []byte("x"), 0644))

	src := NewRawReplaySource(afs, "dumps", 0)
	require.NoError(t, src.Open(context.Background()))
	defer src.Close()
	for _, want := range []byte{1, 2, 10} {
		buf, err := src.Read()
		require.NoError(t, err)
		assert.Equal(t, []byte{want}, buf)
	}
	_, err := src.Read()
	assert.Equal(t, io.EOF, err)
}

func TestRawReplayEmptyDir(t *testing.T) {
	afs := &afero.Afero{Fs: afero.NewMemMapFs()}
	require.NoError(t, afs.MkdirAll("dumps", 0755))
	assert.Error(t, NewRawReplaySource(afs, "dumps", 0).Open(context.Background()))
	assert.Error(t, NewRawReplaySource(afs, "missing", 0).Open(context.Background()))
}

func TestJPEGReplayReadsRecording(t *testing.T) {
	afs := &afero.Afero{Fs: afero.NewMemMapFs()}
	w := rgbd.NewWriter(afs, "rec")
	require.NoError(t, w.Prepare())
	for i := 0; i < 2; i++ {
		color := rgbdframe.NewColorFrame(testGeometry)
		require.NoError(t, w.WriteFrame(i, color, rgbdframe.NewDepthFrame(testGeometry)))
	}

	src := NewJPEGReplaySource(afs, "rec/"+rgbd.ColorDir, testGeometry, 0)
	require.NoError(t, src.Open(context.Background()))
	defer src.Close()
	for i := 0; i < 2; i++ {
		frame, err := src.Read()
		require.NoError(t, err)
		assert.Equal(t, testGeometry.Width, frame.Width)
	}
	_, err := src.Read()
	assert.Equal(t, io.EOF, err)

	wrong := NewJPEGReplaySource(afs, "rec/"+rgbd.ColorDir, rgbdframe.DefaultGeometry, 0)
	require.NoError(t, wrong.Open(context.Background()))
	_, err = wrong.Read()
	assert.Error(t, err)
}
