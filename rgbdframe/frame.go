// Copyright 2026 The Cacophony Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package rgbdframe

import (
	"fmt"
	"image"
	"image/color"
)

// DepthFrame represents the depth readings for a single frame.
type DepthFrame struct {
	Pix    [][]uint16
	Status Telemetry
}

// Creates a new depth frame sized for the provided camera implementation
func NewDepthFrame(c CameraSpec) *DepthFrame {
	frame := new(DepthFrame)
	frame.Pix = make([][]uint16, c.ResY())
	for i := range frame.Pix {
		frame.Pix[i] = make([]uint16, c.ResX())
	}
	return frame
}

func (fr *DepthFrame) ResX() int {
	if len(fr.Pix) == 0 {
		return 0
	}
	return len(fr.Pix[0])
}

func (fr *DepthFrame) ResY() int { return len(fr.Pix) }

// Gray16 returns the frame as a 16-bit grayscale image.
func (fr *DepthFrame) Gray16() *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, fr.ResX(), fr.ResY()))
	for y, row := range fr.Pix {
		i := y * img.Stride
		for _, v := range row {
			img.Pix[i] = uint8(v >> 8)
			img.Pix[i+1] = uint8(v)
			i += 2
		}
	}
	return img
}

// ColorFrame holds one packed 8-bit RGB image from the color camera.
// It implements image.Image so it can be handed to encoders directly.
type ColorFrame struct {
	Width  int
	Height int
	Pix    []uint8
}

// Creates a new black color frame sized for the provided camera implementation
func NewColorFrame(c CameraSpec) *ColorFrame {
	return &ColorFrame{
		Width:  c.ResX(),
		Height: c.ResY(),
		Pix:    make([]uint8, c.ResX()*c.ResY()*3),
	}
}

// ColorFrameFromImage converts a decoded image to a ColorFrame. The
// image must match the camera resolution exactly.
func ColorFrameFromImage(c CameraSpec, img image.Image) (*ColorFrame, error) {
	b := img.Bounds()
	if b.Dx() != c.ResX() || b.Dy() != c.ResY() {
		return nil, fmt.Errorf("image is %dx%d, expected %dx%d", b.Dx(), b.Dy(), c.ResX(), c.ResY())
	}
	frame := NewColorFrame(c)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			rgba := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			frame.Pix[i] = rgba.R
			frame.Pix[i+1] = rgba.G
			frame.Pix[i+2] = rgba.B
			i += 3
		}
	}
	return frame, nil
}

func (fr *ColorFrame) ResX() int { return fr.Width }
func (fr *ColorFrame) ResY() int { return fr.Height }

// Set writes the RGB value of a single pixel.
func (fr *ColorFrame) Set(x, y int, r, g, b uint8) {
	i := (y*fr.Width + x) * 3
	fr.Pix[i] = r
	fr.Pix[i+1] = g
	fr.Pix[i+2] = b
}

func (fr *ColorFrame) ColorModel() color.Model { return color.RGBAModel }

func (fr *ColorFrame) Bounds() image.Rectangle { return image.Rect(0, 0, fr.Width, fr.Height) }

func (fr *ColorFrame) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= fr.Width || y >= fr.Height {
		return color.RGBA{}
	}
	i := (y*fr.Width + x) * 3
	return color.RGBA{R: fr.Pix[i], G: fr.Pix[i+1], B: fr.Pix[i+2], A: 0xff}
}
