// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sensor runs temperature sensors on a host scheduler.
//
// A Poller samples one Device every report interval, checks each reading
// against the safety envelope handed to it by the host, and reports the
// reading through a callback. The host owns time, fault handling and the
// sensor factories; they are injected as interfaces so that nothing in this
// package relies on global state.
//
// All times are in seconds on the scheduler's monotonic clock.
package sensor

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
)

// Callback receives every sample. readTime is the scheduler time of the
// sample translated by the host Clock.
type Callback func(readTime, temp float64)

// Timer is a callback run by a Scheduler.
type Timer interface {
	// Fire runs the timer and returns the next time it wants to run.
	Fire(eventtime float64) float64
	// Halted reports that the timer must never run again. The scheduler
	// checks it after every Fire.
	Halted() bool
}

// Scheduler runs timers one at a time.
type Scheduler interface {
	// Monotonic returns the current scheduler time.
	Monotonic() float64
	// UpdateTimer (re)schedules t to run at waketime.
	UpdateTimer(t Timer, waketime float64)
}

// Shutdowner is the host's global fatal shutdown.
type Shutdowner interface {
	InvokeShutdown(msg string)
}

// ShutdownFunc adapts a function to a Shutdowner.
type ShutdownFunc func(msg string)

// InvokeShutdown calls f(msg).
func (f ShutdownFunc) InvokeShutdown(msg string) {
	f(msg)
}

// Clock translates scheduler time into the host time base reported to
// callbacks.
type Clock interface {
	EstimatedPrintTime(eventtime float64) float64
}

// ClockFunc adapts a function to a Clock.
type ClockFunc func(eventtime float64) float64

// EstimatedPrintTime calls f(eventtime).
func (f ClockFunc) EstimatedPrintTime(eventtime float64) float64 {
	return f(eventtime)
}

// identityClock reports scheduler time unchanged.
var identityClock = ClockFunc(func(t float64) float64 { return t })

// Device is the bus facing half of a sensor.
type Device interface {
	// Sample reads and converts one temperature in °C. Bus failures are
	// returned as *TransportError.
	Sample() (float64, error)
	// Identify reads the device identity, for diagnostics only.
	Identify() (string, error)
}

// Host holds the collaborators a Factory wires into a Poller.
type Host struct {
	Bus       i2c.Bus
	Scheduler Scheduler
	Shutdown  Shutdowner
	// Clock defaults to reporting scheduler time unchanged.
	Clock Clock
	// Log defaults to the logrus standard logger.
	Log logrus.FieldLogger
}

// TransportError wraps a failed bus transaction.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("sensor: transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

var (
	// ErrCallbackRegistered is returned when a second callback is set up.
	ErrCallbackRegistered = errors.New("sensor: callback already registered")
	// ErrNoCallback is returned by Connect when no callback was set up.
	ErrNoCallback = errors.New("sensor: no callback registered")
	// ErrConnected is returned when the poller is already connected.
	ErrConnected = errors.New("sensor: already connected")
)
