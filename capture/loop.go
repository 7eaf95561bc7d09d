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

package capture

import (
	"context"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	rgbd "github.com/TheCacophonyProject/go-rgbd"
	"github.com/TheCacophonyProject/go-rgbd/device"
	"github.com/TheCacophonyProject/go-rgbd/metrics"
	"github.com/TheCacophonyProject/go-rgbd/rgbdframe"
)

// FrameWriter persists one color/depth pair under a frame index.
type FrameWriter interface {
	WriteFrame(index int, color *rgbdframe.ColorFrame, depth *rgbdframe.DepthFrame) error
}

// SessionStarter is implemented by a FrameWriter that needs to persist
// something once both devices are open, before the first tick.
type SessionStarter interface {
	StartSession() error
}

// LoopConfig holds the fixed parameters of a session.
type LoopConfig struct {
	Camera    rgbdframe.CameraSpec
	Countdown time.Duration
	Record    time.Duration
}

// EndReason tells how a session ended.
type EndReason int

const (
	EndFinished EndReason = iota
	EndCancelled
	EndError
)

func (r EndReason) String() string {
	switch r {
	case EndFinished:
		return "finished"
	case EndCancelled:
		return "cancelled"
	case EndError:
		return "error"
	}
	return "unknown"
}

// Result summarises a session. Frames written before a cancel or an
// error remain valid.
type Result struct {
	SessionID string
	Reason    EndReason
	Started   time.Time
	Ended     time.Time
	Frames    int
	Ticks     int
	FPS       float64
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Loop) { l.log = log }
}

// WithDisplay sets where per-tick status goes.
func WithDisplay(d Display) Option {
	return func(l *Loop) { l.display = d }
}

// WithMetrics records session metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Loop) { l.metrics = m }
}

// WithTimeSource replaces time.Now, for simulated sessions.
func WithTimeSource(now func() time.Time) Option {
	return func(l *Loop) { l.now = now }
}

// NewLoop returns a Loop that owns color and depth for the lifetime of
// one session.
func NewLoop(cfg LoopConfig, color device.ColorSource, depth device.DepthSource, w FrameWriter, opts ...Option) *Loop {
	l := &Loop{
		cfg:     cfg,
		color:   color,
		depth:   depth,
		writer:  w,
		decoder: rgbd.NewDecoder(cfg.Camera),
		log:     logrus.StandardLogger(),
		display: nopDisplay{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Loop pulls one color frame and one depth buffer per tick, pairs them
// and hands them to the FrameWriter while the session is recording.
// Run may only be called once.
type Loop struct {
	cfg     LoopConfig
	color   device.ColorSource
	depth   device.DepthSource
	writer  FrameWriter
	decoder *rgbd.Decoder
	log     logrus.FieldLogger
	display Display
	metrics *metrics.Metrics
	now     func() time.Time

	session *Session
	clock   *Clock
	fps     *FrameRateEstimator
	depthFr *rgbdframe.DepthFrame
	opened  []func() error
}

// Run executes the session until the clock finishes, ctx is cancelled
// or a fatal error occurs. Both devices are released before Run
// returns, whatever the outcome. A cancelled session is not an error.
func (l *Loop) Run(ctx context.Context) (res Result, err error) {
	if err := l.open(ctx); err != nil {
		l.metrics.ObserveError("device_init")
		return Result{Reason: EndError}, err
	}
	defer l.release()

	start := l.now()
	l.session = newSession(start)
	l.clock = NewClock(start, l.cfg.Countdown, l.cfg.Record)
	l.fps = NewFrameRateEstimator(start)
	l.depthFr = rgbdframe.NewDepthFrame(l.cfg.Camera)
	l.log = l.log.WithField("session", l.session.ID.String())
	l.log.WithFields(logrus.Fields{
		"countdown": l.cfg.Countdown,
		"record":    l.cfg.Record,
	}).Info("session started")
	l.metrics.SetPhase(int(PhaseCountdown))

	var reason EndReason
	if err = l.startWriter(); err != nil {
		reason = EndError
	} else {
		reason, err = l.run(ctx)
	}
	res = Result{
		SessionID: l.session.ID.String(),
		Reason:    reason,
		Started:   start,
		Ended:     l.now(),
		Frames:    l.session.FrameIndex,
		Ticks:     l.session.Ticks,
		FPS:       l.fps.FPS(),
	}
	entry := l.log.WithFields(logrus.Fields{
		"reason": reason,
		"frames": res.Frames,
		"ticks":  res.Ticks,
		"fps":    res.FPS,
	})
	if err != nil {
		entry.WithError(err).Error("session failed")
	} else {
		entry.Info("session ended")
	}
	return res, err
}

func (l *Loop) run(ctx context.Context) (EndReason, error) {
	phase := PhaseCountdown
	for {
		if ctx.Err() != nil {
			return EndCancelled, nil
		}

		color, err := l.color.Read()
		if err != nil {
			return l.readFailed(ctx, errors.Wrap(err, "read color frame"))
		}
		raw, err := l.depth.Read()
		if err != nil {
			return l.readFailed(ctx, errors.Wrap(err, "read depth frame"))
		}
		if err := l.decoder.DecodeInto(raw, l.depthFr); err != nil {
			l.metrics.ObserveError("invalid_buffer")
			return EndError, err
		}

		now := l.now()
		l.session.Ticks++
		fps := l.fps.Update(now)
		l.metrics.ObserveTick(fps)
		next := l.clock.Advance(now)
		if next != phase {
			l.log.WithFields(logrus.Fields{
				"from": phase,
				"to":   next,
			}).Info("phase changed")
			phase = next
			l.metrics.SetPhase(int(phase))
		}

		status := Status{Phase: phase, FPS: fps, FrameIndex: l.session.FrameIndex}
		elapsed := l.clock.Elapsed(now)
		if secs, ok := l.clock.CountdownRemaining(elapsed); ok {
			status.Remaining, status.ShowTimer = secs, true
		} else if secs, ok := l.clock.RecordingRemaining(elapsed); ok {
			status.Remaining, status.ShowTimer = secs, true
		}
		l.display.Show(status)

		switch phase {
		case PhaseFinished:
			return EndFinished, nil
		case PhaseRecording:
			l.depthFr.Status = rgbdframe.Telemetry{Tick: l.session.Ticks, CapturedAt: now, FPS: fps}
			writeStart := time.Now()
			if err := l.writer.WriteFrame(l.session.FrameIndex, color, l.depthFr); err != nil {
				l.metrics.ObserveError("write")
				return EndError, rgbd.NewError(rgbd.ErrWrite, errors.Wrapf(err, "frame %d", l.session.FrameIndex))
			}
			l.metrics.ObserveWrite(time.Since(writeStart))
			l.session.FrameIndex++
		}
	}
}

func (l *Loop) startWriter() error {
	s, ok := l.writer.(SessionStarter)
	if !ok {
		return nil
	}
	if err := s.StartSession(); err != nil {
		l.metrics.ObserveError("write")
		return rgbd.NewError(rgbd.ErrWrite, errors.Wrap(err, "start session"))
	}
	return nil
}

// readFailed treats a read interrupted by cancellation as a cancel.
func (l *Loop) readFailed(ctx context.Context, err error) (EndReason, error) {
	if ctx.Err() != nil {
		return EndCancelled, nil
	}
	l.metrics.ObserveError("device_read")
	return EndError, rgbd.NewError(rgbd.ErrDeviceRead, err)
}

func (l *Loop) open(ctx context.Context) error {
	if err := l.color.Open(ctx); err != nil {
		return rgbd.NewError(rgbd.ErrDeviceInit, errors.Wrap(err, "open color camera"))
	}
	l.opened = append(l.opened, l.color.Close)
	if err := l.depth.Open(ctx); err != nil {
		l.release()
		return rgbd.NewError(rgbd.ErrDeviceInit, errors.Wrap(err, "open depth sensor"))
	}
	l.opened = append(l.opened, l.depth.Close)
	return nil
}

// release closes every opened device exactly once. Close failures are
// logged; they do not invalidate frames already written.
func (l *Loop) release() {
	var result *multierror.Error
	for i := len(l.opened) - 1; i >= 0; i-- {
		result = multierror.Append(result, l.opened[i]())
	}
	l.opened = nil
	if err := result.ErrorOrNil(); err != nil {
		l.log.WithError(err).Warn("releasing devices")
	}
}
