// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the YAML file describing the sensors a host runs.
//
//	sensors:
//	  - name: temperature_sensor chamber
//	    type: MLX90614
//	    i2c_bus: ""
//	    i2c_address: 0x5a
//	    report_time: 0.8
//	    min_temp: 0
//	    max_temp: 300
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultReportTime is the sampling interval in seconds used when
	// report_time is not set.
	DefaultReportTime = 0.8
	// MinReportTime is the smallest accepted sampling interval in seconds.
	MinReportTime = 0.5
)

// Config is the root of the configuration file.
type Config struct {
	Sensors []Sensor `yaml:"sensors"`
}

// Sensor configures one sensor instance.
type Sensor struct {
	// Name of the instance. Only the last word is kept, so a section name
	// like "temperature_sensor chamber" yields "chamber".
	Name string `yaml:"name"`
	// Type selects the driver factory, e.g. "MLX90614".
	Type string `yaml:"type"`
	// Bus is the periph I²C bus name. Empty selects the first bus.
	Bus string `yaml:"i2c_bus"`
	// Address on the bus. 0 selects the driver default.
	Address uint16 `yaml:"i2c_address"`
	// ReportTime is the sampling interval in seconds.
	ReportTime *float64 `yaml:"report_time"`
	// MinTemp and MaxTemp bound the safety envelope in °C.
	MinTemp float64 `yaml:"min_temp"`
	MaxTemp float64 `yaml:"max_temp"`
	// PEC enables packet error code verification on reads.
	PEC bool `yaml:"pec"`
}

// Interval returns the sampling interval in seconds.
func (s *Sensor) Interval() float64 {
	if s.ReportTime == nil {
		return DefaultReportTime
	}
	return *s.ReportTime
}

// Load reads, normalizes and validates the file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a configuration, normalizes and validates it. Unknown keys
// are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	Normalize(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
