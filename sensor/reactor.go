// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

import (
	"context"
	"math"
	"sync"
	"time"
)

// idleWait bounds how long Run sleeps when no timer is scheduled.
const idleWait = time.Hour

// Reactor is a Scheduler running every timer on the goroutine calling Run,
// one at a time, so timers never run concurrently with each other.
type Reactor struct {
	start time.Time

	mu     sync.Mutex
	timers map[Timer]entry
	gen    uint64
	wake   chan struct{}
}

// entry is a scheduled wake time. gen changes on every UpdateTimer.
type entry struct {
	when float64
	gen  uint64
}

// NewReactor returns a Reactor whose clock starts at 0 now.
func NewReactor() *Reactor {
	return &Reactor{
		start:  time.Now(),
		timers: make(map[Timer]entry),
		wake:   make(chan struct{}, 1),
	}
}

// Monotonic returns the seconds elapsed since NewReactor.
func (r *Reactor) Monotonic() float64 {
	return time.Since(r.start).Seconds()
}

// UpdateTimer schedules t at waketime. A NaN or infinite waketime unschedules
// t. It may be called from any goroutine, including from t.Fire; Run then
// keeps the earlier of that time and the one Fire returns.
func (r *Reactor) UpdateTimer(t Timer, waketime float64) {
	r.mu.Lock()
	r.gen++
	if finite(waketime) {
		r.timers[t] = entry{when: waketime, gen: r.gen}
	} else {
		delete(r.timers, t)
	}
	r.mu.Unlock()
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run fires due timers until ctx is done. A timer reporting Halted after it
// fired, or returning a NaN or infinite wake time, is dropped.
func (r *Reactor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		t, e, ok := r.next()
		delay := idleWait
		if ok {
			delay = time.Duration((e.when - r.Monotonic()) * float64(time.Second))
		}
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-r.wake:
				timer.Stop()
			case <-timer.C:
			}
			continue
		}
		next := t.Fire(r.Monotonic())
		r.mu.Lock()
		cur, scheduled := r.timers[t]
		switch {
		case !scheduled:
			// Unscheduled from within Fire.
		case t.Halted() || !finite(next):
			delete(r.timers, t)
		case cur.gen != e.gen && cur.when < next:
			// Rescheduled earlier from within Fire.
		default:
			r.timers[t] = entry{when: next, gen: cur.gen}
		}
		r.mu.Unlock()
	}
}

// next returns the timer with the earliest wake time.
func (r *Reactor) next() (Timer, entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var (
		first Timer
		when  entry
	)
	for t, e := range r.timers {
		if first == nil || e.when < when.when {
			first, when = t, e
		}
	}
	return first, when, first != nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

var _ Scheduler = &Reactor{}
