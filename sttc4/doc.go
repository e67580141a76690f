// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sttc4 provides a driver for the Sensirion STTC4 CO2 sensor.
//
// The sensor is addressed with 16-bit command words sent most significant
// byte first. Every data word the sensor returns is two bytes followed by a
// CRC8 of those bytes. Opening the device reads the product id and confirms
// the part is an STTC4 before the Dev is reported as ready.
//
// # Datasheet
//
// https://sensirion.com/products/catalog/STTC4
package sttc4
