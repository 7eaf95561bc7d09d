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
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/TheCacophonyProject/go-rgbd/rgbdframe"
)

// The second plane of the sensor buffer carries a coarse contribution
// that is scaled into the high byte range before being added to the
// first plane. The arithmetic is uint16 and wraps, matching depth files
// produced by the vendor SDK.
const highPlaneScale uint16 = 255

// NewDecoder creates a new Decoder.
func NewDecoder(c rgbdframe.CameraSpec) *Decoder {
	return &Decoder{
		cols: c.ResX(),
		rows: c.ResY(),
		spec: c,
	}
}

// Decoder reconstructs depth frames from raw dual-plane sensor
// buffers. See DecodeInto.
type Decoder struct {
	cols, rows int
	spec       rgbdframe.CameraSpec
}

// BufferLen returns the exact raw buffer length the decoder accepts.
func (d *Decoder) BufferLen() int {
	return d.cols * d.rows * rgbdframe.RawBytesPerPixel
}

// Decode returns a newly allocated frame decoded from raw.
func (d *Decoder) Decode(raw []byte) (*rgbdframe.DepthFrame, error) {
	out := rgbdframe.NewDepthFrame(d.spec)
	if err := d.DecodeInto(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeInto combines the two planes of raw into out, mirroring each
// row so the depth image has the same handedness as the color image.
// out is left untouched if raw has the wrong length.
func (d *Decoder) DecodeInto(raw []byte, out *rgbdframe.DepthFrame) error {
	if len(raw) != d.BufferLen() {
		return errors.Wrapf(ErrInvalidBuffer, "got %d bytes, want %d", len(raw), d.BufferLen())
	}
	if out.ResX() != d.cols || out.ResY() != d.rows {
		return errors.Errorf("depth frame is %dx%d, decoder expects %dx%d",
			out.ResX(), out.ResY(), d.cols, d.rows)
	}

	i := 0
	for y := 0; y < d.rows; y++ {
		row := out.Pix[y]
		for x := d.cols - 1; x >= 0; x-- {
			low := binary.LittleEndian.Uint16(raw[i:])
			high := binary.LittleEndian.Uint16(raw[i+2:])
			row[x] = low + high*highPlaneScale
			i += rgbdframe.RawBytesPerPixel
		}
	}
	return nil
}
