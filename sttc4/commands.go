// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sttc4

import "fmt"

// Command is a 16-bit command word understood by the sensor.
type Command uint16

// The documented command set. Only CmdGetProductID is issued by this driver.
const (
	CmdStartContinuousMeasurement Command = 0x218b
	CmdStopContinuousMeasurement  Command = 0x3f86
	CmdReadMeasurement            Command = 0xec05
	CmdSetRHTCompensation         Command = 0xe000
	CmdSetPressureCompensation    Command = 0xe016
	CmdMeasureSingleShot          Command = 0x219d
	CmdEnterSleepMode             Command = 0x3650
	// Payload byte written to wake the sensor. Not a command word.
	CmdExitSleepMode       Command = 0x00
	CmdPerformConditioning Command = 0x29bc
	// Sent to the general call address. Not a command word.
	CmdPerformSoftReset           Command = 0x06
	CmdPerformFactoryReset        Command = 0x3632
	CmdPerformSelfTest            Command = 0x278c
	CmdEnableTestingMode          Command = 0x3fbc
	CmdDisableTestingMode         Command = 0x3f3d
	CmdPerformForcedRecalibration Command = 0x362f
	CmdGetProductID               Command = 0x365b
)

var commandNames = map[Command]string{
	CmdStartContinuousMeasurement: "start_continuous_measurement",
	CmdStopContinuousMeasurement:  "stop_continuous_measurement",
	CmdReadMeasurement:            "read_measurement",
	CmdSetRHTCompensation:         "set_rht_compensation",
	CmdSetPressureCompensation:    "set_pressure_compensation",
	CmdMeasureSingleShot:          "measure_single_shot",
	CmdEnterSleepMode:             "enter_sleep_mode",
	CmdExitSleepMode:              "exit_sleep_mode",
	CmdPerformConditioning:        "perform_conditioning",
	CmdPerformSoftReset:           "perform_soft_reset",
	CmdPerformFactoryReset:        "perform_factory_reset",
	CmdPerformSelfTest:            "perform_self_test",
	CmdEnableTestingMode:          "enable_testing_mode",
	CmdDisableTestingMode:         "disable_testing_mode",
	CmdPerformForcedRecalibration: "perform_forced_recalibration",
	CmdGetProductID:               "get_product_id",
}

// Commands returns the documented command set ordered by name.
func Commands() []Command {
	return []Command{
		CmdDisableTestingMode,
		CmdEnableTestingMode,
		CmdEnterSleepMode,
		CmdExitSleepMode,
		CmdGetProductID,
		CmdMeasureSingleShot,
		CmdPerformConditioning,
		CmdPerformFactoryReset,
		CmdPerformForcedRecalibration,
		CmdPerformSelfTest,
		CmdPerformSoftReset,
		CmdReadMeasurement,
		CmdSetPressureCompensation,
		CmdSetRHTCompensation,
		CmdStartContinuousMeasurement,
		CmdStopContinuousMeasurement,
	}
}

// Bytes returns the command word as it is written on the bus, most
// significant byte first.
func (c Command) Bytes() [2]byte {
	return [2]byte{byte(c >> 8), byte(c & 0xff)}
}

// IsWord reports whether c is sent as a 16-bit command word. Exit sleep and
// soft reset are single payload bytes.
func (c Command) IsWord() bool {
	return c != CmdExitSleepMode && c != CmdPerformSoftReset
}

// Frame returns the bytes written on the bus for c: the two byte command word,
// or the payload byte for commands that are not words.
func (c Command) Frame() []byte {
	if !c.IsWord() {
		return []byte{byte(c)}
	}
	b := c.Bytes()
	return b[:]
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return fmt.Sprintf("%s(0x%04x)", name, uint16(c))
	}
	return fmt.Sprintf("0x%04x", uint16(c))
}
