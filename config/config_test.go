// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr(f float64) *float64 {
	return &f
}

func sensor(name string, rt float64) Sensor {
	return Sensor{
		Name:       name,
		Type:       "MLX90614",
		ReportTime: ptr(rt),
		MinTemp:    0,
		MaxTemp:    300,
	}
}

func TestDecode(t *testing.T) {
	const doc = `
sensors:
  - name: temperature_sensor chamber
    type: mlx90614
    i2c_bus: "1"
    i2c_address: 0x5b
    min_temp: 0
    max_temp: 300
    pec: true
  - name: bed
    type: MLX90614
    report_time: 1.5
    min_temp: -10
    max_temp: 120
`
	got, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Sensors: []Sensor{
			{Name: "chamber", Type: "MLX90614", Bus: "1", Address: 0x5b, ReportTime: ptr(DefaultReportTime), MinTemp: 0, MaxTemp: 300, PEC: true},
			{Name: "bed", Type: "MLX90614", ReportTime: ptr(1.5), MinTemp: -10, MaxTemp: 120},
		},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Unexpected result (-got +want):\n%s", diff)
	}
}

func TestDecode_UnknownField(t *testing.T) {
	const doc = `
sensors:
  - name: chamber
    type: MLX90614
    mlx90614_report_time: 0.8
`
	if _, err := Decode(strings.NewReader(doc)); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestDecode_Empty(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Sensors) != 0 {
		t.Errorf("expected no sensors, got %d", len(cfg.Sensors))
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensors.yaml")
	doc := "sensors:\n  - name: chamber\n    type: MLX90614\n    max_temp: 300\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Sensors) != 1 || cfg.Sensors[0].Interval() != DefaultReportTime {
		t.Errorf("unexpected config %+v", cfg)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate_ReportTimeFloor(t *testing.T) {
	for _, rt := range []float64{-1, 0, 0.1, 0.49, 0.4999, math.NaN(), math.Inf(1), math.Inf(-1)} {
		cfg := &Config{Sensors: []Sensor{sensor("chamber", rt)}}
		err := Validate(cfg)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("report_time %g: expected *ValidationError, got %v", rt, err)
			continue
		}
		if ve.Field != "report_time" {
			t.Errorf("report_time %g: error on field %q", rt, ve.Field)
		}
	}
	for _, rt := range []float64{0.5, 0.8, 1, 30} {
		cfg := &Config{Sensors: []Sensor{sensor("chamber", rt)}}
		if err := Validate(cfg); err != nil {
			t.Errorf("report_time %g: unexpected error %v", rt, err)
		}
		if got := cfg.Sensors[0].Interval(); got != rt {
			t.Errorf("Interval()=%g expected %g", got, rt)
		}
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"duplicate", Config{Sensors: []Sensor{sensor("a", 1), sensor("a", 1)}}, "name"},
		{"no name", Config{Sensors: []Sensor{sensor("", 1)}}, "name"},
		{"no type", Config{Sensors: []Sensor{{Name: "a", ReportTime: ptr(1), MaxTemp: 1}}}, "type"},
		{"address", Config{Sensors: []Sensor{{Name: "a", Type: "MLX90614", Address: 0x80, MaxTemp: 1}}}, "i2c_address"},
		{"envelope", Config{Sensors: []Sensor{{Name: "a", Type: "MLX90614", MinTemp: 10, MaxTemp: 10}}}, "max_temp"},
	}
	for _, test := range tests {
		err := Validate(&test.cfg)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected *ValidationError, got %v", test.name, err)
			continue
		}
		if ve.Field != test.field {
			t.Errorf("%s: error on field %q, expected %q", test.name, ve.Field, test.field)
		}
	}
}

func TestValidate_NonFiniteEnvelope(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		lo := sensor("a", 1)
		lo.MinTemp = v
		hi := sensor("a", 1)
		hi.MaxTemp = v
		for field, s := range map[string]Sensor{"min_temp": lo, "max_temp": hi} {
			err := ValidateSensor(&s)
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != field {
				t.Errorf("%s=%g: expected *ValidationError on %s, got %v", field, v, field, err)
			}
		}
	}
}

func TestDecode_NonFinite(t *testing.T) {
	for _, line := range []string{"report_time: .nan", "report_time: .inf", "min_temp: .nan", "max_temp: .nan", "max_temp: .inf"} {
		doc := "sensors:\n  - name: chamber\n    type: MLX90614\n    " + line + "\n"
		if !strings.Contains(line, "max_temp") {
			doc += "    max_temp: 300\n"
		}
		var ve *ValidationError
		if _, err := Decode(strings.NewReader(doc)); !errors.As(err, &ve) {
			t.Errorf("%q: expected *ValidationError, got %v", line, err)
		}
	}
}

// Sensors of different types may share a name.
func TestValidate_SameNameDifferentType(t *testing.T) {
	other := sensor("a", 1)
	other.Type = "LM75"
	cfg := &Config{Sensors: []Sensor{sensor("a", 1), other}}
	if err := Validate(cfg); err != nil {
		t.Fatal(err)
	}
}

func TestNormalize(t *testing.T) {
	cfg := &Config{Sensors: []Sensor{{Name: "  temperature_sensor  chamber ", Type: " mlx90614 "}}}
	Normalize(cfg)
	want := Sensor{Name: "chamber", Type: "MLX90614", ReportTime: ptr(DefaultReportTime)}
	if diff := cmp.Diff(cfg.Sensors[0], want); diff != "" {
		t.Errorf("Unexpected result (-got +want):\n%s", diff)
	}
	Normalize(nil)

	s := Sensor{Name: "bed", Type: "mlx90614", ReportTime: ptr(2)}
	NormalizeSensor(&s)
	if s.Type != "MLX90614" || *s.ReportTime != 2 {
		t.Errorf("NormalizeSensor() returned %+v", s)
	}
}
