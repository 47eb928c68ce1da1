// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/irtemp/config"
	"github.com/GermanBionicSystems/irtemp/mlx90614"
	"github.com/sirupsen/logrus"
)

// KindMLX90614 is the sensor type served by LoadMLX90614.
const KindMLX90614 = "MLX90614"

// LoadMLX90614 registers the MLX90614 factory.
func LoadMLX90614(r *Registry) {
	r.Add(KindMLX90614, newMLX90614)
}

func newMLX90614(cfg config.Sensor, h Host) (*Poller, error) {
	if h.Bus == nil {
		return nil, errors.New("sensor: MLX90614 requires an I²C bus")
	}
	if err := config.ValidateSensor(&cfg); err != nil {
		return nil, err
	}
	if err := h.Bus.SetSpeed(mlx90614.BusSpeed); err != nil {
		log := h.Log
		if log == nil {
			log = logrus.StandardLogger()
		}
		log.WithError(err).WithField("bus", h.Bus.String()).Debugf("keeping bus speed, %s not applied", mlx90614.BusSpeed)
	}
	dev, err := mlx90614.NewI2C(h.Bus, &mlx90614.Opts{Addr: cfg.Address, PEC: cfg.PEC})
	if err != nil {
		return nil, err
	}
	return New(KindMLX90614, cfg.Name, cfg.Interval(), &mlxDevice{dev: dev}, h)
}

// mlxDevice samples the object temperature of IR channel 1.
type mlxDevice struct {
	dev *mlx90614.Dev
}

func (m *mlxDevice) Sample() (float64, error) {
	raw, err := m.dev.ReadWord(mlx90614.TObj1)
	if err != nil {
		return 0, transportError(err)
	}
	return mlx90614.DegreesFromSample(raw), nil
}

func (m *mlxDevice) Identify() (string, error) {
	id, err := m.dev.ChipID()
	if err != nil {
		return "", transportError(err)
	}
	return fmt.Sprintf("%#x", id), nil
}

func transportError(err error) error {
	var te *mlx90614.TransportError
	if errors.As(err, &te) {
		return &TransportError{Err: err}
	}
	return err
}
