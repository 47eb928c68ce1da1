// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/GermanBionicSystems/irtemp/config"
)

// Factory builds a Poller for a configured sensor.
type Factory func(cfg config.Sensor, h Host) (*Poller, error)

// Registry maps sensor types to factories and keeps the instances they
// built, by object name.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	objects   map[string]*Poller
	order     []*Poller
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		objects:   make(map[string]*Poller),
	}
}

// Add registers the factory for a sensor type. Types are case-insensitive.
func (r *Registry) Add(kind string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToUpper(kind)] = f
}

// Kinds returns the registered sensor types, sorted.
func (r *Registry) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// New builds the sensor described by cfg. cfg is normalized first, so only
// the last word of the name is kept. Names must be unique per type.
func (r *Registry) New(cfg config.Sensor, h Host) (*Poller, error) {
	config.NormalizeSensor(&cfg)
	kind := cfg.Type
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("sensor: unknown sensor type %q", cfg.Type)
	}
	objectName := kind + " " + cfg.Name
	if _, ok := r.objects[objectName]; ok {
		return nil, fmt.Errorf("sensor: duplicate sensor %q", objectName)
	}
	p, err := f(cfg, h)
	if err != nil {
		return nil, err
	}
	r.objects[objectName] = p
	r.order = append(r.order, p)
	return p, nil
}

// Lookup returns the sensor registered as "<type> <name>".
func (r *Registry) Lookup(objectName string) (*Poller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.objects[objectName]
	return p, ok
}

// Pollers returns every sensor built so far, in creation order.
func (r *Registry) Pollers() []*Poller {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Poller(nil), r.order...)
}
