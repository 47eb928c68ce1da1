// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package metrics exports the state of the temperature pollers to
// Prometheus.
package metrics

import (
	"net/http"

	"github.com/GermanBionicSystems/irtemp/sensor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	temperatureDesc = prometheus.NewDesc(
		"irtemp_temperature_celsius",
		"Last object temperature read by the sensor, in degrees Celsius.",
		[]string{"kind", "sensor"}, nil,
	)
	haltedDesc = prometheus.NewDesc(
		"irtemp_sensor_halted",
		"1 when the sensor stopped polling after a read failure.",
		[]string{"kind", "sensor"}, nil,
	)
	samplesDesc = prometheus.NewDesc(
		"irtemp_samples_total",
		"Samples delivered to the host since start.",
		[]string{"kind", "sensor"}, nil,
	)
)

// Collector reads the pollers at scrape time.
type Collector struct {
	pollers func() []*sensor.Poller
}

// NewCollector returns a Collector over the pollers returned by f, usually
// (*sensor.Registry).Pollers.
func NewCollector(f func() []*sensor.Poller) *Collector {
	return &Collector{pollers: f}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- temperatureDesc
	ch <- haltedDesc
	ch <- samplesDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, p := range c.pollers() {
		halted := 0.
		if p.Halted() {
			halted = 1
		}
		ch <- prometheus.MustNewConstMetric(temperatureDesc, prometheus.GaugeValue, p.Temperature(), p.Kind(), p.Name())
		ch <- prometheus.MustNewConstMetric(haltedDesc, prometheus.GaugeValue, halted, p.Kind(), p.Name())
		ch <- prometheus.MustNewConstMetric(samplesDesc, prometheus.CounterValue, float64(p.Samples()), p.Kind(), p.Name())
	}
}

// Handler returns an http.Handler serving c, and the Go runtime collectors,
// from a private registry.
func Handler(c *Collector) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(c, collectors.NewGoCollector())
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

var _ prometheus.Collector = &Collector{}
