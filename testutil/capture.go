// Package testutil provides fake capture devices and incident fixtures
// for testing the capture core without hardware.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/jmorrin/caretrail"
)

// ScriptedRecognizer is a Recognizer that replays scripted fragment
// batches. Each Start delivers the next batch on a buffered channel;
// Stop closes the active channel. A fresh stream after pause/resume
// therefore consumes the next batch, mirroring a restarted engine.
type ScriptedRecognizer struct {
	// Batches are delivered one per Start call, in order.
	Batches [][]caretrail.Fragment

	// StartErr, if set, makes Start fail.
	StartErr error

	mu     sync.Mutex
	ch     chan caretrail.Fragment
	batch  int
	starts int
}

func (r *ScriptedRecognizer) Start(ctx context.Context) (<-chan caretrail.Fragment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.StartErr != nil {
		return nil, r.StartErr
	}
	r.starts++

	var frags []caretrail.Fragment
	if r.batch < len(r.Batches) {
		frags = r.Batches[r.batch]
		r.batch++
	}
	ch := make(chan caretrail.Fragment, len(frags)+1)
	for _, f := range frags {
		ch <- f
	}
	r.ch = ch
	return ch, nil
}

func (r *ScriptedRecognizer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ch != nil {
		close(r.ch)
		r.ch = nil
	}
}

// Starts reports how many streams were opened.
func (r *ScriptedRecognizer) Starts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts
}

// Active reports whether a stream is currently open.
func (r *ScriptedRecognizer) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ch != nil
}

// FakeAudioDevice is an AudioDevice that counts acquisitions.
type FakeAudioDevice struct {
	// FailAcquire, if set, makes Acquire fail.
	FailAcquire error

	mu       sync.Mutex
	acquired int
	released int
}

func (d *FakeAudioDevice) Acquire() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailAcquire != nil {
		return d.FailAcquire
	}
	d.acquired++
	return nil
}

func (d *FakeAudioDevice) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.released++
}

// Acquired reports how many times the device was acquired.
func (d *FakeAudioDevice) Acquired() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.acquired
}

// Held reports whether the device is currently held.
func (d *FakeAudioDevice) Held() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.acquired > d.released
}

// FakeLocator is a LocationProvider returning fixed coordinates,
// optionally after a delay so timeout behavior can be exercised.
type FakeLocator struct {
	Lat   float64
	Lon   float64
	Err   error
	Delay time.Duration
}

func (l *FakeLocator) Current(ctx context.Context) (float64, float64, error) {
	if l.Delay > 0 {
		select {
		case <-time.After(l.Delay):
		case <-ctx.Done():
			return 0, 0, ctx.Err()
		}
	}
	if l.Err != nil {
		return 0, 0, l.Err
	}
	return l.Lat, l.Lon, nil
}
