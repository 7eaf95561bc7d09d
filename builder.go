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
	"image/jpeg"
	"image/png"
	"io"

	"github.com/TheCacophonyProject/go-rgbd/rgbdframe"
)

// DefaultJPEGQuality is used for color frames unless overridden.
const DefaultJPEGQuality = 95

// NewBuilder returns a new Builder instance encoding color frames at
// the given JPEG quality.
func NewBuilder(jpegQuality int) *Builder {
	return &Builder{
		jpegOpts: &jpeg.Options{Quality: jpegQuality},
		pngEnc:   &png.Encoder{CompressionLevel: png.BestSpeed},
	}
}

// Builder handles the low-level encoding of color and depth images.
// See Writer for a higher-level interface.
type Builder struct {
	jpegOpts *jpeg.Options
	pngEnc   *png.Encoder
}

// WriteColor writes a lossy JPEG encoding of the color frame to w
func (b *Builder) WriteColor(w io.Writer, frame *rgbdframe.ColorFrame) error {
	return jpeg.Encode(w, frame, b.jpegOpts)
}

// WriteDepth writes a lossless 16-bit grayscale PNG of the depth frame to w
func (b *Builder) WriteDepth(w io.Writer, frame *rgbdframe.DepthFrame) error {
	return b.pngEnc.Encode(w, frame.Gray16())
}
