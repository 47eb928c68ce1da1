// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"net/http"

	"github.com/GermanBionicSystems/irtemp/metrics"
	"github.com/GermanBionicSystems/irtemp/sensor"
)

type clock interface {
	Monotonic() float64
}

// statusHandler serves the status of every sensor keyed by object name.
type statusHandler struct {
	reg   *sensor.Registry
	clock clock
}

type sensorStatus struct {
	sensor.Status
	State string `json:"state"`
}

func (h statusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Monotonic()
	out := map[string]sensorStatus{}
	for _, p := range h.reg.Pollers() {
		out[p.ObjectName()] = sensorStatus{Status: p.Status(now), State: p.State().String()}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func newMux(reg *sensor.Registry, c clock) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(metrics.NewCollector(reg.Pollers)))
	mux.Handle("/status", statusHandler{reg: reg, clock: c})
	return mux
}
