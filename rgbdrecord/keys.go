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
	"bytes"
	"io"
	"os"

	"golang.org/x/term"
)

const ctrlC = 3

// watchKeys puts the terminal on stdin into raw mode so single key
// presses are seen without Enter. Pressing q stops the session. The
// returned writer translates newlines for the raw terminal and restore
// must be called before exit.
func watchKeys(stdin *os.File, out io.Writer, stop func()) (io.Writer, func()) {
	fd := int(stdin.Fd())
	if !term.IsTerminal(fd) {
		return out, func() {}
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return out, func() {}
	}
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 1 && isStopKey(buf[0]) {
				stop()
				return
			}
		}
	}()
	return crlfWriter{out}, func() { term.Restore(fd, state) }
}

func isStopKey(b byte) bool {
	return b == 'q' || b == 'Q' || b == ctrlC
}

// crlfWriter writes \r\n for every \n since raw mode disables output
// post-processing.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
