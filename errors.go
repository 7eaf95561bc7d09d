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
	"github.com/pkg/errors"
)

// Kinds of session failure. Use errors.Is to classify an error returned
// by the capture loop.
var (
	ErrInvalidBuffer = errors.New("invalid depth buffer")
	ErrDeviceInit    = errors.New("device init failure")
	ErrDeviceRead    = errors.New("device read failure")
	ErrWrite         = errors.New("frame write failure")
)

// Error pairs a failure kind with its underlying cause so that both
// can be matched with errors.Is.
type Error struct {
	Kind error
	Err  error
}

// NewError returns err annotated with kind. A nil err gives nil.
func NewError(kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Cause returns the underlying error, for use with errors.Cause.
func (e *Error) Cause() error {
	return e.Err
}
