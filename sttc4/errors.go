// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sttc4

import (
	"errors"
	"fmt"
)

// Errors returned by Dev.Open and Dev.Verify. Use errors.Is to test for them.
var (
	// ErrTransportUnavailable is returned when no bus handle could be
	// acquired for the device.
	ErrTransportUnavailable = errors.New("sttc4: transport unavailable")
	// ErrTransport is returned when a bus transaction fails after the handle
	// was acquired.
	ErrTransport = errors.New("sttc4: transport error")
	// ErrIntegrity is returned when a received word fails its CRC check.
	ErrIntegrity = errors.New("sttc4: data integrity error")
	// ErrIdentityMismatch is returned when the device reports a product id
	// other than ProductIDSTTC4.
	ErrIdentityMismatch = errors.New("sttc4: identity mismatch")
)

// CRCError reports a data word whose CRC did not match.
type CRCError struct {
	// Offset of the word within the response.
	Offset   int
	Expected byte
	Actual   byte
}

func (e *CRCError) Error() string {
	return fmt.Sprintf("sttc4: crc mismatch for word at offset %d: expected 0x%02x, received 0x%02x",
		e.Offset, e.Expected, e.Actual)
}

// Is reports CRCError as ErrIntegrity.
func (e *CRCError) Is(target error) bool {
	return target == ErrIntegrity
}

// IdentityMismatchError reports a device that answered with a valid but
// unexpected product id.
type IdentityMismatchError struct {
	Expected ProductID
	Actual   ProductID
}

func (e *IdentityMismatchError) Error() string {
	return fmt.Sprintf("sttc4: device mismatch: expected product id %s, device has %s", e.Expected, e.Actual)
}

// Is reports IdentityMismatchError as ErrIdentityMismatch.
func (e *IdentityMismatchError) Is(target error) bool {
	return target == ErrIdentityMismatch
}
