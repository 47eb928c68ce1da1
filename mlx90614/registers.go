// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mlx90614

import (
	"fmt"
	"strings"
)

// Register is the command byte addressing a RAM or EEPROM word on the device.
type Register byte

const (
	// RAM
	RawIR1 Register = 0x04 // Raw data IR channel 1
	RawIR2 Register = 0x05 // Raw data IR channel 2
	TA     Register = 0x06 // Ambient temperature
	TObj1  Register = 0x07 // Object 1 temperature
	TObj2  Register = 0x08 // Object 2 temperature

	// EEPROM
	TOMax      Register = 0x20 // Object temperature max
	TOMin      Register = 0x21 // Object temperature min
	PWMCtrl    Register = 0x22 // PWM configuration
	TARange    Register = 0x23 // Ambient temperature range
	Emissivity Register = 0x24 // Emissivity correction coefficient
	Config     Register = 0x25 // Configuration register 1
	Addr       Register = 0x2e // SMBus slave address
	ID1        Register = 0x3c // Identification number, read-only
	ID2        Register = 0x3d
	ID3        Register = 0x3e
	ID4        Register = 0x3f
)

const registerPrefix = "MLX90614_"

var registers = []struct {
	reg  Register
	name string
}{
	{RawIR1, "RAWIR1"},
	{RawIR2, "RAWIR2"},
	{TA, "TA"},
	{TObj1, "TOBJ1"},
	{TObj2, "TOBJ2"},
	{TOMax, "TOMAX"},
	{TOMin, "TOMIN"},
	{PWMCtrl, "PWMCTRL"},
	{TARange, "TARANGE"},
	{Emissivity, "EMISS"},
	{Config, "CONFIG"},
	{Addr, "ADDR"},
	{ID1, "ID1"},
	{ID2, "ID2"},
	{ID3, "ID3"},
	{ID4, "ID4"},
}

// UnknownRegisterError is returned by LookupRegister when the name is not in
// the register map.
type UnknownRegisterError struct {
	Name string
}

func (e *UnknownRegisterError) Error() string {
	return fmt.Sprintf("mlx90614: unknown register %q", e.Name)
}

// LookupRegister returns the register for a symbolic name such as
// "MLX90614_TOBJ1" or "tobj1". The match ignores case and the prefix.
func LookupRegister(name string) (Register, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, registerPrefix)
	for _, r := range registers {
		if r.name == n {
			return r.reg, nil
		}
	}
	return 0, &UnknownRegisterError{Name: name}
}

// String returns the symbolic name of the register.
func (r Register) String() string {
	for _, e := range registers {
		if e.reg == r {
			return registerPrefix + e.name
		}
	}
	return fmt.Sprintf("Register(%#02x)", byte(r))
}

// eeprom reports whether the register lives in EEPROM, which needs an erase
// cycle and a PEC on every write.
func (r Register) eeprom() bool {
	return r >= TOMax && r <= ID4
}
