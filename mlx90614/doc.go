// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mlx90614 provides a driver for the Melexis MLX90614 non-contact
// infrared thermometer over I²C (SMBus).
//
// The device answers at address 0x5a by default and runs its SMBus interface
// at up to 100kHz. Every RAM and EEPROM cell is a 16 bit little endian word
// addressed by a single command byte, optionally followed by a packet error
// code (PEC).
//
// Object range: -70°C - 380°C
//
// Ambient range: -40°C - 125°C
//
// Resolution: 0.02°C
//
// # Datasheet
//
// https://www.melexis.com/-/media/files/documents/datasheets/mlx90614-datasheet-melexis.pdf
package mlx90614
