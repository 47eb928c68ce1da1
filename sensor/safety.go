// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

import "fmt"

// RangeError describes a temperature outside of the safety envelope.
type RangeError struct {
	Sensor string
	Temp   float64
	Min    float64
	Max    float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s temperature %0.1f outside range of %0.1f:%0.1f", e.Sensor, e.Temp, e.Min, e.Max)
}

// Monitor enforces the safety envelope of one sensor.
type Monitor struct {
	name     string
	shutdown Shutdowner
}

// NewMonitor returns a Monitor reporting violations to shutdown.
func NewMonitor(name string, shutdown Shutdowner) *Monitor {
	return &Monitor{name: name, shutdown: shutdown}
}

// Check asks the host to shut down when temp is strictly outside
// [minTemp, maxTemp] and returns the violation. The caller carries on with
// the sample either way; halting is up to the host.
func (m *Monitor) Check(temp, minTemp, maxTemp float64) error {
	if temp >= minTemp && temp <= maxTemp {
		return nil
	}
	err := &RangeError{Sensor: m.name, Temp: temp, Min: minTemp, Max: maxTemp}
	m.shutdown.InvokeShutdown(err.Error())
	return err
}
