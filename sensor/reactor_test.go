// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

// countingTimer runs every interval seconds and halts after limit fires.
type countingTimer struct {
	interval float64
	limit    int
	times    []float64
}

func (c *countingTimer) Fire(eventtime float64) float64 {
	c.times = append(c.times, eventtime)
	return eventtime + c.interval
}

func (c *countingTimer) Halted() bool {
	return c.limit > 0 && len(c.times) >= c.limit
}

func TestReactor_Run(t *testing.T) {
	r := NewReactor()
	halting := &countingTimer{interval: 0.01, limit: 3}
	running := &countingTimer{interval: 0.02}
	r.UpdateTimer(halting, r.Monotonic())
	r.UpdateTimer(running, r.Monotonic())

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if err := r.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() returned %v", err)
	}
	if len(halting.times) != 3 {
		t.Errorf("halted timer fired %d times, expected 3", len(halting.times))
	}
	if len(running.times) < 3 {
		t.Errorf("running timer fired %d times", len(running.times))
	}
	for _, c := range []*countingTimer{halting, running} {
		for i := 1; i < len(c.times); i++ {
			if c.times[i]-c.times[i-1] < c.interval-1e-6 {
				t.Errorf("timer fired early: %v", c.times)
			}
		}
	}
}

// A timer added while Run sleeps wakes it up.
func TestReactor_UpdateTimerWakesRun(t *testing.T) {
	r := NewReactor()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- r.Run(ctx)
	}()

	fired := make(chan float64, 1)
	time.Sleep(20 * time.Millisecond)
	r.UpdateTimer(&chanTimer{ch: fired}, r.Monotonic())
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("timer did not fire")
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() returned %v", err)
	}
}

type chanTimer struct {
	ch chan float64
}

func (c *chanTimer) Fire(eventtime float64) float64 {
	c.ch <- eventtime
	return eventtime
}

func (c *chanTimer) Halted() bool {
	return true
}

// funcTimer calls fire and never halts.
type funcTimer struct {
	fires int
	fire  func(t *funcTimer, eventtime float64) float64
}

func (f *funcTimer) Fire(eventtime float64) float64 {
	f.fires++
	return f.fire(f, eventtime)
}

func (f *funcTimer) Halted() bool {
	return false
}

func runFor(t *testing.T, r *Reactor, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	if err := r.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() returned %v", err)
	}
}

// A timer returning a NaN or infinite wake time is dropped instead of firing
// in a loop.
func TestReactor_NonFiniteWaketime(t *testing.T) {
	for _, w := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		r := NewReactor()
		returned := &funcTimer{fire: func(*funcTimer, float64) float64 { return w }}
		updated := &funcTimer{fire: func(_ *funcTimer, e float64) float64 { return e + 0.01 }}
		r.UpdateTimer(returned, r.Monotonic())
		r.UpdateTimer(updated, w)
		runFor(t, r, 100*time.Millisecond)
		if returned.fires != 1 {
			t.Errorf("wake time %g: timer fired %d times, expected 1", w, returned.fires)
		}
		if updated.fires != 0 {
			t.Errorf("wake time %g: unscheduled timer fired %d times", w, updated.fires)
		}
	}
}

// UpdateTimer called from within Fire is kept when it is earlier than the
// returned wake time.
func TestReactor_UpdateTimerDuringFire(t *testing.T) {
	r := NewReactor()
	earlier := &funcTimer{fire: func(f *funcTimer, e float64) float64 {
		if f.fires < 3 {
			r.UpdateTimer(f, e)
		}
		return e + 3600
	}}
	later := &funcTimer{fire: func(f *funcTimer, e float64) float64 {
		r.UpdateTimer(f, e+3600)
		return e + 0.01
	}}
	unscheduled := &funcTimer{fire: func(f *funcTimer, e float64) float64 {
		r.UpdateTimer(f, math.Inf(1))
		return e
	}}
	r.UpdateTimer(earlier, r.Monotonic())
	r.UpdateTimer(later, r.Monotonic())
	r.UpdateTimer(unscheduled, r.Monotonic())
	runFor(t, r, 200*time.Millisecond)
	if earlier.fires != 3 {
		t.Errorf("rescheduled timer fired %d times, expected 3", earlier.fires)
	}
	if later.fires < 2 {
		t.Errorf("timer fired %d times, expected its own earlier wake time to win", later.fires)
	}
	if unscheduled.fires != 1 {
		t.Errorf("unscheduled timer fired %d times, expected 1", unscheduled.fires)
	}
}
