// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, the SMBus packet error code calculation.
package common

// PEC calculates the SMBus Packet Error Code of the byte slice parameter and
// returns the calculated value. It is a CRC-8 with polynomial x^8+x^2+x+1 and
// a zero initial value, computed over every byte of the transaction including
// the address bytes.
func PEC(bytes []byte) byte {
	var crc byte
	for _, val := range bytes {
		crc ^= val
		for range 8 {
			if (crc & 0x80) == 0 {
				crc <<= 1
			} else {
				crc = (crc << 1) ^ 0x07
			}
		}
	}
	return crc
}
