// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

// WordSize is the number of bytes a data word occupies on the wire. Two data
// bytes, most significant first, followed by their CRC8.
const WordSize = 3

// EncodeWords converts the slice of word values into byte values with the
// CRC following each word.
func EncodeWords(data []uint16) []byte {
	bytes := make([]byte, len(data)*WordSize)
	for ix, val := range data {
		bytes[ix*WordSize] = byte(val >> 8)
		bytes[ix*WordSize+1] = byte(val)
		bytes[ix*WordSize+2] = CRC8(bytes[ix*WordSize : ix*WordSize+2])
	}
	return bytes
}

// CheckWord validates the CRC of the word held in b[:3] and returns the word
// value. ok is false if b is too short or the CRC does not match, in which case
// word must not be used.
func CheckWord(b []byte) (word uint16, ok bool) {
	if len(b) < WordSize {
		return 0, false
	}
	if CRC8(b[:2]) != b[2] {
		return 0, false
	}
	return uint16(b[0])<<8 | uint16(b[1]), true
}
