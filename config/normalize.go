// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import "strings"

// Normalize trims names, upper-cases types and fills in the default report
// time. It mutates cfg and must run before Validate.
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	for i := range cfg.Sensors {
		NormalizeSensor(&cfg.Sensors[i])
	}
}

// NormalizeSensor normalizes a single sensor section the same way.
func NormalizeSensor(s *Sensor) {
	if f := strings.Fields(s.Name); len(f) > 0 {
		s.Name = f[len(f)-1]
	} else {
		s.Name = ""
	}
	s.Type = strings.ToUpper(strings.TrimSpace(s.Type))
	if s.ReportTime == nil {
		rt := DefaultReportTime
		s.ReportTime = &rt
	}
}
