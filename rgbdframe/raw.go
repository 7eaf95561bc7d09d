// Copyright 2026 The Cacophony Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package rgbdframe

import "encoding/binary"

// RawBytesPerPixel is the size of one pixel in a raw depth buffer: two
// little-endian uint16 samples, the low plane followed by the high plane.
const RawBytesPerPixel = 4

// RawDepthLen returns the exact length of a raw depth buffer for c.
func RawDepthLen(c CameraSpec) int {
	return c.ResX() * c.ResY() * RawBytesPerPixel
}

// NewRawDepth allocates a zeroed raw depth buffer for c.
func NewRawDepth(c CameraSpec) []byte {
	return make([]byte, RawDepthLen(c))
}

// PutRawSample stores both plane samples of pixel (x, y) in buf, laid
// out as the sensor delivers them (not mirrored).
func PutRawSample(buf []byte, cols, x, y int, low, high uint16) {
	i := (y*cols + x) * RawBytesPerPixel
	binary.LittleEndian.PutUint16(buf[i:], low)
	binary.LittleEndian.PutUint16(buf[i+2:], high)
}
