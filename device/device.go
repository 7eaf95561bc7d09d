// Copyright 2026 The Cacophony Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

// Package device defines the color and depth sources a capture session
// pulls frames from, plus sources that need no camera hardware.
package device

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/TheCacophonyProject/go-rgbd/rgbdframe"
)

// ErrNotOpen is returned by Read on a source that is not open.
var ErrNotOpen = errors.New("device not open")

// ColorSource yields fixed resolution RGB frames on demand. Read
// blocks until the next frame is available.
type ColorSource interface {
	Open(ctx context.Context) error
	Read() (*rgbdframe.ColorFrame, error)
	Close() error
}

// DepthSource yields raw dual-plane depth buffers on demand. The
// returned buffer is only valid until the next call to Read.
type DepthSource interface {
	Open(ctx context.Context) error
	Read() ([]byte, error)
	Close() error
}

// pacer blocks reads to a fixed frame rate, as a real device would.
type pacer struct {
	ctx    context.Context
	ticker *time.Ticker
}

func newPacer(ctx context.Context, fps int) *pacer {
	p := &pacer{ctx: ctx}
	if fps > 0 {
		p.ticker = time.NewTicker(time.Second / time.Duration(fps))
	}
	return p
}

func (p *pacer) wait() error {
	if p.ticker == nil {
		return p.ctx.Err()
	}
	select {
	case <-p.ticker.C:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

func (p *pacer) stop() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}
