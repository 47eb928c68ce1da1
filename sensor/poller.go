// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// State is the lifecycle state of a Poller.
type State int32

const (
	Uninitialized State = iota
	Scheduled
	Sampling
	// Halted is terminal. The poller never reads the bus again.
	Halted
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Scheduled:
		return "scheduled"
	case Sampling:
		return "sampling"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Poller samples a Device on a Scheduler. Fire is only ever called by the
// scheduler, so the temperature has a single writer; Status and State may be
// read from any goroutine.
type Poller struct {
	kind       string
	name       string
	dev        Device
	sched      Scheduler
	clock      Clock
	monitor    *Monitor
	log        logrus.FieldLogger
	reportTime float64

	mu       sync.Mutex
	minTemp  float64
	maxTemp  float64
	callback Callback

	state   atomic.Int32
	temp    atomic.Uint64
	samples atomic.Uint64
}

// New returns a Poller for dev. kind and name identify the instance in logs
// and shutdown messages. reportTime is the interval between samples in
// seconds; the configuration layer enforces its lower bound.
func New(kind, name string, reportTime float64, dev Device, h Host) (*Poller, error) {
	if name == "" {
		return nil, errors.New("sensor: name required")
	}
	if !(reportTime > 0) || math.IsInf(reportTime, 0) {
		return nil, fmt.Errorf("sensor: report time %g must be a finite value > 0", reportTime)
	}
	if dev == nil || h.Scheduler == nil || h.Shutdown == nil {
		return nil, errors.New("sensor: device, scheduler and shutdown are required")
	}
	p := &Poller{
		kind:       kind,
		name:       name,
		dev:        dev,
		sched:      h.Scheduler,
		clock:      h.Clock,
		reportTime: reportTime,
	}
	if p.clock == nil {
		p.clock = identityClock
	}
	log := h.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	p.log = log.WithField("sensor", p.ObjectName())
	p.monitor = NewMonitor(p.ObjectName(), h.Shutdown)
	return p, nil
}

// Name returns the instance name.
func (p *Poller) Name() string {
	return p.name
}

// Kind returns the sensor type, e.g. "MLX90614".
func (p *Poller) Kind() string {
	return p.kind
}

// ObjectName returns "<kind> <name>", the name the host knows it by.
func (p *Poller) ObjectName() string {
	if p.kind == "" {
		return p.name
	}
	return p.kind + " " + p.name
}

// ReportTimeDelta returns the interval between samples in seconds.
func (p *Poller) ReportTimeDelta() float64 {
	return p.reportTime
}

// SetupMinMax sets the safety envelope. It may be called at any time; the
// next sample uses the new bounds.
func (p *Poller) SetupMinMax(minTemp, maxTemp float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.minTemp = minTemp
	p.maxTemp = maxTemp
}

// SetupCallback registers the sample callback. It must be called exactly
// once, before Connect.
func (p *Poller) SetupCallback(cb Callback) error {
	if cb == nil {
		return errors.New("sensor: nil callback")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.callback != nil {
		return ErrCallbackRegistered
	}
	if p.State() != Uninitialized {
		return ErrConnected
	}
	p.callback = cb
	return nil
}

// Connect handles the host connect event: it probes the device identity and
// schedules the first sample immediately. A transport failure of the probe
// is logged and ignored; any other error is returned and nothing is
// scheduled.
func (p *Poller) Connect() error {
	p.mu.Lock()
	cb := p.callback
	p.mu.Unlock()
	if cb == nil {
		return ErrNoCallback
	}
	if p.State() != Uninitialized {
		return ErrConnected
	}
	if err := p.identify(); err != nil {
		return fmt.Errorf("sensor: %s: identity probe: %w", p.ObjectName(), err)
	}
	if !p.state.CompareAndSwap(int32(Uninitialized), int32(Scheduled)) {
		return ErrConnected
	}
	p.sched.UpdateTimer(p, p.sched.Monotonic())
	return nil
}

func (p *Poller) identify() error {
	id, err := p.dev.Identify()
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) {
			p.log.WithError(err).Info("chip ID not available")
			return nil
		}
		return err
	}
	p.log.Infof("chip ID %s", id)
	return nil
}

// Fire takes one sample. It implements Timer.
func (p *Poller) Fire(eventtime float64) float64 {
	if p.Halted() {
		return eventtime
	}
	p.state.Store(int32(Sampling))
	temp, err := p.dev.Sample()
	if err != nil {
		p.setTemperature(0)
		p.state.Store(int32(Halted))
		p.log.WithError(err).Error("error reading data")
		return eventtime
	}
	p.setTemperature(temp)
	p.samples.Add(1)

	p.mu.Lock()
	minTemp, maxTemp, cb := p.minTemp, p.maxTemp, p.callback
	p.mu.Unlock()
	if err := p.monitor.Check(temp, minTemp, maxTemp); err != nil {
		p.log.WithError(err).Warn("shutdown requested")
	}

	measured := p.sched.Monotonic()
	cb(p.clock.EstimatedPrintTime(measured), temp)
	p.state.Store(int32(Scheduled))
	return measured + p.reportTime
}

// Halted reports whether a read failure stopped the poller. It implements
// Timer.
func (p *Poller) Halted() bool {
	return p.State() == Halted
}

// State returns the current lifecycle state.
func (p *Poller) State() State {
	return State(p.state.Load())
}

// Temperature returns the last sample in °C, unrounded. It is 0 before the
// first sample and after a read failure.
func (p *Poller) Temperature() float64 {
	return math.Float64frombits(p.temp.Load())
}

// Samples returns the number of successful samples.
func (p *Poller) Samples() uint64 {
	return p.samples.Load()
}

func (p *Poller) setTemperature(t float64) {
	p.temp.Store(math.Float64bits(t))
}

var _ Timer = &Poller{}
