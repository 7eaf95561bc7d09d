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
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	rgbd "github.com/TheCacophonyProject/go-rgbd"
	"github.com/TheCacophonyProject/go-rgbd/capture"
	"github.com/TheCacophonyProject/go-rgbd/config"
	"github.com/TheCacophonyProject/go-rgbd/metrics"
)

var errUsage = errors.New("usage")

func main() {
	err := runMain(os.Args[1:], os.Stdin, os.Stderr)
	if err == errUsage {
		os.Exit(2)
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func usage(out io.Writer, flags *flag.FlagSet) {
	fmt.Fprintf(out, "Usage: %s [options] <foldername>\n", os.Args[0])
	fmt.Fprintln(out, "foldername: path where the recorded data should be stored at")
	fmt.Fprintf(out, "e.g., %s LINEMOD/mug\n", os.Args[0])
	fmt.Fprintln(out, "Press q to stop recording early.")
	flags.SetOutput(out)
	flags.PrintDefaults()
}

func runMain(args []string, stdin *os.File, stderr io.Writer) error {
	flags := flag.NewFlagSet("rgbdrecord", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	configPath := flags.String("config", "", "YAML configuration file")
	countdown := flags.Duration("countdown", 0, "countdown before recording (default from config)")
	record := flags.Duration("record", 0, "recording length (default from config)")
	if err := flags.Parse(args); err != nil || flags.NArg() != 1 {
		usage(stderr, flags)
		return errUsage
	}
	folder := flags.Arg(0)

	fs := afero.NewOsFs()
	cfg, err := config.Load(fs, *configPath)
	if err != nil {
		return err
	}
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "countdown":
			cfg.Countdown = *countdown
		case "record":
			cfg.Record = *record
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out, restore := watchKeys(stdin, stderr, cancel)
	defer restore()

	log, err := newLogger(out, cfg.LogLevel)
	if err != nil {
		return err
	}
	return runRecording(ctx, cfg, folder, fs, out, log)
}

func newLogger(out io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "log_level")
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	return log, nil
}

func runRecording(ctx context.Context, cfg *config.Config, folder string, fs afero.Fs, out io.Writer, log *logrus.Logger) error {
	w := rgbd.NewWriter(fs, folder,
		rgbd.WithJPEGQuality(cfg.JPEGQuality),
		rgbd.WithIntrinsics(cfg.CameraIntrinsics()),
	)
	if err := w.Prepare(); err != nil {
		return err
	}

	color, depth, err := newSources(cfg, fs, log)
	if err != nil {
		return err
	}
	m := metrics.New()
	loop := capture.NewLoop(
		capture.LoopConfig{
			Camera:    cfg.Geometry(),
			Countdown: cfg.Countdown,
			Record:    cfg.Record,
		},
		color, depth, w,
		capture.WithLogger(log),
		capture.WithDisplay(newStatusLine(out, time.Now)),
		capture.WithMetrics(m),
	)

	res, runErr := loop.Run(ctx)
	fmt.Fprint(out, "\n")
	if res.SessionID != "" {
		manifest := rgbd.Manifest{
			SessionID: res.SessionID,
			Started:   res.Started,
			Ended:     res.Ended,
			Reason:    res.Reason.String(),
			Frames:    res.Frames,
			Ticks:     res.Ticks,
			FPS:       res.FPS,
			Countdown: cfg.Countdown.Seconds(),
			Record:    cfg.Record.Seconds(),
			Timeline:  w.Timeline(),
		}
		if runErr != nil {
			manifest.Error = runErr.Error()
		}
		if err := w.WriteManifest(manifest); err != nil {
			log.WithError(err).Error("writing session manifest")
		}
	}
	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			log.WithError(err).Error("writing metrics")
		}
	}
	if runErr == nil {
		log.WithField("folder", folder).Infof("recorded %d frames", res.Frames)
	}
	return runErr
}
