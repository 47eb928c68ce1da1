// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"math"
)

// ValidationError reports an invalid sensor setting.
type ValidationError struct {
	Sensor string
	Field  string
	Msg    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: sensor %q: %s: %s", e.Sensor, e.Field, e.Msg)
}

// Validate checks the configuration. It does not mutate it.
func Validate(cfg *Config) error {
	seen := make(map[string]bool)
	for i := range cfg.Sensors {
		s := &cfg.Sensors[i]
		if err := ValidateSensor(s); err != nil {
			return err
		}
		key := s.Type + " " + s.Name
		if seen[key] {
			return &ValidationError{Sensor: s.Name, Field: "name", Msg: "duplicate " + s.Type + " sensor"}
		}
		seen[key] = true
	}
	return nil
}

// ValidateSensor checks a single sensor section.
func ValidateSensor(s *Sensor) error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Msg: "required"}
	}
	if s.Type == "" {
		return &ValidationError{Sensor: s.Name, Field: "type", Msg: "required"}
	}
	if rt := s.Interval(); !(rt >= MinReportTime) || math.IsInf(rt, 0) {
		return &ValidationError{Sensor: s.Name, Field: "report_time", Msg: fmt.Sprintf("%g is below the minimum of %g", rt, MinReportTime)}
	}
	if s.Address > 0x7f {
		return &ValidationError{Sensor: s.Name, Field: "i2c_address", Msg: fmt.Sprintf("%#x is not a 7 bit address", s.Address)}
	}
	if !finite(s.MinTemp) {
		return &ValidationError{Sensor: s.Name, Field: "min_temp", Msg: fmt.Sprintf("%g is not a finite temperature", s.MinTemp)}
	}
	if !finite(s.MaxTemp) {
		return &ValidationError{Sensor: s.Name, Field: "max_temp", Msg: fmt.Sprintf("%g is not a finite temperature", s.MaxTemp)}
	}
	if s.MinTemp >= s.MaxTemp {
		return &ValidationError{Sensor: s.Name, Field: "max_temp", Msg: fmt.Sprintf("%g must be above min_temp %g", s.MaxTemp, s.MinTemp)}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
