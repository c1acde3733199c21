// Package stability decides whether a candidate file has finished uploading.
package stability

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrVanished reports that the file disappeared between the two samples.
var ErrVanished = errors.New("file vanished during stability check")

// Detector compares two size/modtime samples separated by a settle interval.
// A file still being written changes between samples and is reported unstable
// so the pass leaves it for the next invocation. A producer that rewrites
// bytes in place without growing the file can slip through; the settle
// interval is the tunable guard against that.
type Detector struct {
	settle time.Duration
	sleep  func(context.Context, time.Duration) error
}

// Option configures the detector.
type Option func(*Detector)

// WithSleep injects a custom sleep function (primarily for tests).
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(d *Detector) {
		if sleep != nil {
			d.sleep = sleep
		}
	}
}

// New constructs a detector with the given settle interval.
func New(settle time.Duration, opts ...Option) *Detector {
	d := &Detector{settle: settle, sleep: contextSleep}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type sample struct {
	size    int64
	modTime time.Time
}

// IsStable samples path twice across the settle interval and reports whether
// both observations are identical. A file missing at either sample returns
// ErrVanished.
func (d *Detector) IsStable(ctx context.Context, path string) (bool, error) {
	first, err := observe(path)
	if err != nil {
		return false, err
	}
	if err := d.sleep(ctx, d.settle); err != nil {
		return false, err
	}
	second, err := observe(path)
	if err != nil {
		return false, err
	}
	return first == second, nil
}

func observe(path string) (sample, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return sample{}, ErrVanished
		}
		return sample{}, fmt.Errorf("stat %q: %w", path, err)
	}
	return sample{size: info.Size(), modTime: info.ModTime()}, nil
}

func contextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
