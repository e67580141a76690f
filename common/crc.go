// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, a CRC8 calculation and the word framing used by Sensirion devices.
package common

const (
	// CRC8Polynomial is p(x) = x^8 + x^5 + x^4 + 1. x^8 is omitted due to
	// byte size.
	CRC8Polynomial byte = 0x31
	// CRC8Init is the initial value of the CRC accumulator.
	CRC8Init byte = 0xff
)

// CRC8 calculates the 8-bit CRC of the byte slice parameter and returns the
// calculated value. CRC bytes are used in sensors from TI and Sensirion.
//
// No input or output reflection and no final XOR are applied. An empty slice
// returns CRC8Init.
func CRC8(bytes []byte) byte {
	crc := CRC8Init
	for _, val := range bytes {
		crc ^= val
		for i := 0; i < 8; i++ {
			if (crc & 0x80) == 0 {
				crc <<= 1
			} else {
				crc = (crc << 1) ^ CRC8Polynomial
			}
		}
	}
	return crc
}
