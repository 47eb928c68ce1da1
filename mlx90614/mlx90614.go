// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mlx90614

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/GermanBionicSystems/irtemp/common"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultAddress is the factory SMBus address of the device.
	DefaultAddress uint16 = 0x5a

	// BusSpeed is the maximum SMBus clock the device supports.
	BusSpeed = 100 * physic.KiloHertz

	// Value of one LSB of a temperature word.
	sampleResolution = 20 * physic.MilliKelvin

	minSampleInterval = 100 * time.Millisecond

	// The datasheet asks for 5ms after an EEPROM write, doubled here.
	eepromWriteDelay = 10 * time.Millisecond
)

// ErrPEC is wrapped by a TransportError when the packet error code received
// from the device doesn't match the data.
var ErrPEC = errors.New("mlx90614: packet error code mismatch")

// TransportError is returned when a bus transaction with the device fails.
type TransportError struct {
	Op  string
	Reg Register
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mlx90614: %s %s: %v", e.Op, e.Reg, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Opts holds the configuration options for the device.
type Opts struct {
	// Addr is the SMBus address. 0 means DefaultAddress.
	Addr uint16
	// PEC enables reading and verifying the packet error code sent after
	// every word.
	PEC bool
}

// DefaultOpts is used when nil is passed to NewI2C.
var DefaultOpts = Opts{Addr: DefaultAddress}

// Dev represents an MLX90614 sensor.
type Dev struct {
	d        *i2c.Dev
	opts     Opts
	mu       sync.Mutex
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewI2C returns a Dev that communicates over the bus. No bus traffic is
// generated until the first read.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Addr == 0 {
		o.Addr = DefaultAddress
	}
	if o.Addr > 0x7f {
		return nil, fmt.Errorf("mlx90614: invalid address %#x", o.Addr)
	}
	return &Dev{d: &i2c.Dev{Bus: b, Addr: o.Addr}, opts: o}, nil
}

// DegreesFromSample converts a raw temperature word to degrees Celsius.
func DegreesFromSample(x uint16) float64 {
	return float64(x)*0.02 - 273.15
}

// SampleToTemperature converts a raw temperature word to a
// physic.Temperature.
func SampleToTemperature(x uint16) physic.Temperature {
	return physic.Temperature(x) * sampleResolution
}

// ReadRegister writes the register command byte and reads n bytes back in
// the same transaction.
func (dev *Dev) ReadRegister(reg Register, n int) ([]byte, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.readRegister(reg, n)
}

// WriteRegister writes the register command byte followed by payload.
func (dev *Dev) WriteRegister(reg Register, payload ...byte) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.writeRegister(reg, payload)
}

// ReadWord reads a 16 bit word. When Opts.PEC is set the trailing packet
// error code is read and verified as well.
func (dev *Dev) ReadWord(reg Register) (uint16, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.readWord(reg)
}

// ChipID returns the first byte of the ID1 register. Many clones don't
// implement it.
func (dev *Dev) ChipID() (byte, error) {
	r, err := dev.ReadRegister(ID1, 1)
	if err != nil {
		return 0, err
	}
	return r[0], nil
}

// SerialNumber returns the 64 bit factory identification number stored in
// ID1 to ID4, ID1 being the most significant word.
func (dev *Dev) SerialNumber() (uint64, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	var sn uint64
	for _, reg := range []Register{ID1, ID2, ID3, ID4} {
		w, err := dev.readWord(reg)
		if err != nil {
			return 0, err
		}
		sn = sn<<16 | uint64(w)
	}
	return sn, nil
}

// ObjectTemperature returns the temperature of the object seen by IR
// channel 1.
func (dev *Dev) ObjectTemperature() (physic.Temperature, error) {
	return dev.readTemperature(TObj1)
}

// Object2Temperature returns the temperature seen by IR channel 2. Only dual
// zone variants implement it.
func (dev *Dev) Object2Temperature() (physic.Temperature, error) {
	return dev.readTemperature(TObj2)
}

// AmbientTemperature returns the die temperature of the sensor.
func (dev *Dev) AmbientTemperature() (physic.Temperature, error) {
	return dev.readTemperature(TA)
}

// Emissivity returns the emissivity coefficient, from 0.1 to 1.0.
func (dev *Dev) Emissivity() (float64, error) {
	w, err := dev.ReadWord(Emissivity)
	if err != nil {
		return 0, err
	}
	return float64(w) / math.MaxUint16, nil
}

// SetEmissivity stores a new emissivity coefficient in EEPROM. The cell is
// erased first as required by the device. The new value is used after the
// next power cycle.
func (dev *Dev) SetEmissivity(e float64) error {
	if e < 0.1 || e > 1 {
		return fmt.Errorf("mlx90614: emissivity %.3f outside of 0.1-1.0", e)
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if err := dev.writeEEPROM(Emissivity, 0); err != nil {
		return err
	}
	return dev.writeEEPROM(Emissivity, uint16(math.Round(e*math.MaxUint16)))
}

// Sense reads the object temperature. Implements physic.SenseEnv.
func (dev *Dev) Sense(env *physic.Env) error {
	t, err := dev.ObjectTemperature()
	if err != nil {
		return err
	}
	env.Temperature = t
	env.Pressure = 0
	env.Humidity = 0
	return nil
}

// SenseContinuous reads the object temperature every interval and sends it on
// the returned channel. Failed reads are skipped. Call Halt() to stop.
// Implements physic.SenseEnv.
func (dev *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < minSampleInterval {
		return nil, fmt.Errorf("mlx90614: invalid interval, minimum %s", minSampleInterval)
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.shutdown != nil {
		return nil, errors.New("mlx90614: SenseContinuous already running")
	}
	dev.shutdown = make(chan struct{})
	ch := make(chan physic.Env, 16)
	dev.wg.Add(1)
	go func(shutdown <-chan struct{}) {
		defer dev.wg.Done()
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-shutdown:
				return
			case <-ticker.C:
				e := physic.Env{}
				if err := dev.Sense(&e); err != nil {
					continue
				}
				select {
				case ch <- e:
				case <-shutdown:
					return
				}
			}
		}
	}(dev.shutdown)
	return ch, nil
}

// Precision returns the resolution of a temperature word. Implements
// physic.SenseEnv.
func (dev *Dev) Precision(env *physic.Env) {
	env.Temperature = sampleResolution
	env.Pressure = 0
	env.Humidity = 0
}

// Halt stops a running SenseContinuous. Implements conn.Resource.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	if dev.shutdown != nil {
		close(dev.shutdown)
		dev.shutdown = nil
	}
	dev.mu.Unlock()
	dev.wg.Wait()
	return nil
}

func (dev *Dev) String() string {
	return fmt.Sprintf("mlx90614: %s", dev.d.String())
}

func (dev *Dev) readTemperature(reg Register) (physic.Temperature, error) {
	w, err := dev.ReadWord(reg)
	if err != nil {
		return 0, err
	}
	return SampleToTemperature(w), nil
}

func (dev *Dev) readRegister(reg Register, n int) ([]byte, error) {
	r := make([]byte, n)
	if err := dev.d.Tx([]byte{byte(reg)}, r); err != nil {
		return nil, &TransportError{Op: "read", Reg: reg, Err: err}
	}
	return r, nil
}

func (dev *Dev) writeRegister(reg Register, payload []byte) error {
	w := make([]byte, 0, len(payload)+1)
	w = append(w, byte(reg))
	w = append(w, payload...)
	if err := dev.d.Tx(w, nil); err != nil {
		return &TransportError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}

func (dev *Dev) readWord(reg Register) (uint16, error) {
	if !dev.opts.PEC {
		r, err := dev.readRegister(reg, 2)
		if err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint16(r), nil
	}
	r, err := dev.readRegister(reg, 3)
	if err != nil {
		return 0, err
	}
	wa := dev.writeAddr()
	if common.PEC([]byte{wa, byte(reg), wa | 1, r[0], r[1]}) != r[2] {
		return 0, &TransportError{Op: "read", Reg: reg, Err: ErrPEC}
	}
	return binary.LittleEndian.Uint16(r), nil
}

// writeEEPROM writes a word followed by its PEC, which the device requires
// for EEPROM, then waits for the cell to be programmed.
func (dev *Dev) writeEEPROM(reg Register, val uint16) error {
	if !reg.eeprom() {
		return fmt.Errorf("mlx90614: %s is not an EEPROM register", reg)
	}
	w := []byte{byte(val), byte(val >> 8)}
	w = append(w, common.PEC([]byte{dev.writeAddr(), byte(reg), w[0], w[1]}))
	if err := dev.writeRegister(reg, w); err != nil {
		return err
	}
	time.Sleep(eepromWriteDelay)
	return nil
}

func (dev *Dev) writeAddr() byte {
	return byte(dev.d.Addr << 1)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
