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
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// ListIndexed returns the sorted frame indexes of the files named
// <index><ext> in dir. Other files are ignored, as are names with
// leading zeros, which the writer never produces.
func ListIndexed(fs afero.Fs, dir, ext string) ([]int, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}
	var indexes []int
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		name := info.Name()
		if filepath.Ext(name) != ext {
			continue
		}
		base := strings.TrimSuffix(name, ext)
		n, err := strconv.Atoi(base)
		if err != nil || n < 0 || strconv.Itoa(n) != base {
			continue
		}
		indexes = append(indexes, n)
	}
	sort.Ints(indexes)
	return indexes, nil
}

func indexedName(dir string, index int, ext string) string {
	return filepath.Join(dir, strconv.Itoa(index)+ext)
}
