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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	rgbd "github.com/TheCacophonyProject/go-rgbd"
)

func main() {
	err := runMain()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runMain() error {
	if len(os.Args) != 2 {
		return fmt.Errorf("usage: %s <foldername>", os.Args[0])
	}
	r, err := rgbd.NewReader(afero.NewOsFs(), os.Args[1])
	if err != nil {
		return err
	}

	in := r.Intrinsics()
	fmt.Println("Resolution:  ", fmt.Sprintf("%dx%d", in.Width, in.Height))
	fmt.Println("Focal length:", in.Fx, in.Fy)
	fmt.Println("Principal:   ", in.Ppx, in.Ppy)
	fmt.Println("Depth scale: ", in.DepthScale)

	if m, ok := r.Manifest(); ok {
		fmt.Println("Session:     ", m.SessionID)
		fmt.Println("Started:     ", m.Started)
		fmt.Println("Duration:    ", m.Ended.Sub(m.Started))
		fmt.Println("Ended by:    ", m.Reason)
		fmt.Println("Ticks:       ", m.Ticks)
		fmt.Printf("FPS:          %.1f\n", m.FPS)
		if m.Error != "" {
			fmt.Println("Error:       ", m.Error)
		}
	}

	frames, err := r.FrameCount()
	if err != nil {
		return err
	}
	fmt.Println("Frames:      ", frames)
	if frames > 0 {
		depth := r.EmptyFrame()
		if err := r.ReadDepth(0, depth); err != nil {
			return err
		}
		lo, hi := depthRange(depth.Pix)
		fmt.Println("Depth range: ", lo, hi)
	}
	return r.Verify()
}

func depthRange(pix [][]uint16) (lo, hi uint16) {
	lo = ^uint16(0)
	for _, row := range pix {
		for _, v := range row {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi == 0 && lo == ^uint16(0) {
		lo = 0
	}
	return lo, hi
}
