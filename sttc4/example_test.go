// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sttc4_test

import (
	"log"

	"github.com/GermanBionicSystems/sttc4/sttc4"
	"periph.io/x/host/v3"
)

// Example shows opening an STTC4 sensor and confirming its identity.
func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal("Error calling host.init()")
	}

	dev := sttc4.New(nil)
	defer dev.Close()

	// Retrying is up to the caller. Open releases the previous handle each
	// time.
	var err error
	for i := 0; i < 3; i++ {
		if err = dev.Open(sttc4.DefaultAddress, ""); err == nil {
			break
		}
		log.Println(err)
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%s product id %s", dev, dev.ProductID())
}
