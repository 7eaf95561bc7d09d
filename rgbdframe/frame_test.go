// Copyright 2026 The Cacophony Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package rgbdframe

import (
	"encoding/binary"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestCamera struct {
}

func (cam *TestCamera) ResX() int {
	return 16
}
func (cam *TestCamera) ResY() int {
	return 12
}
func (cam *TestCamera) FPS() int {
	return 10
}

func TestDepthFrameGray16(t *testing.T) {
	camera := new(TestCamera)
	frame := NewDepthFrame(camera)
	frame.Pix[3][5] = 0xabcd
	frame.Pix[11][15] = 65535

	img := frame.Gray16()
	assert.Equal(t, image.Rect(0, 0, 16, 12), img.Bounds())
	assert.Equal(t, color.Gray16{Y: 0xabcd}, img.Gray16At(5, 3))
	assert.Equal(t, color.Gray16{Y: 65535}, img.Gray16At(15, 11))
	assert.Equal(t, color.Gray16{Y: 0}, img.Gray16At(0, 0))
}

func TestColorFrameImage(t *testing.T) {
	camera := new(TestCamera)
	frame := NewColorFrame(camera)
	frame.Set(2, 1, 10, 20, 30)

	assert.Equal(t, image.Rect(0, 0, 16, 12), frame.Bounds())
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 0xff}, frame.At(2, 1))
	assert.Equal(t, color.RGBA{}, frame.At(-1, 0))

	back, err := ColorFrameFromImage(camera, frame)
	require.NoError(t, err)
	assert.Equal(t, frame.Pix, back.Pix)
}

func TestColorFrameFromImageWrongSize(t *testing.T) {
	_, err := ColorFrameFromImage(new(TestCamera), image.NewRGBA(image.Rect(0, 0, 4, 4)))
	assert.Error(t, err)
}

func TestPutRawSample(t *testing.T) {
	camera := new(TestCamera)
	buf := NewRawDepth(camera)
	require.Len(t, buf, 16*12*4)

	PutRawSample(buf, camera.ResX(), 1, 2, 0x0102, 0x0304)
	i := (2*16 + 1) * RawBytesPerPixel
	assert.Equal(t, uint16(0x0102), binary.LittleEndian.Uint16(buf[i:]))
	assert.Equal(t, uint16(0x0304), binary.LittleEndian.Uint16(buf[i+2:]))
}
