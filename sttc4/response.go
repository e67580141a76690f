// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sttc4

import (
	"fmt"

	"github.com/GermanBionicSystems/sttc4/common"
)

// ProductID is the 32-bit identifier reported by CmdGetProductID.
type ProductID uint32

func (p ProductID) String() string {
	return fmt.Sprintf("0x%08x", uint32(p))
}

const (
	productIDWords        = 6
	productIDResponseSize = productIDWords * common.WordSize
)

// productIDResponse is the reply to CmdGetProductID. Each word is followed by
// its CRC:
//
//	0-1   product id, high word
//	2     crc
//	3-4   product id, low word
//	5     crc
//	6-17  four more words, not decoded
type productIDResponse [productIDResponseSize]byte

// word returns data word ix after checking its CRC.
func (r *productIDResponse) word(ix int) (uint16, error) {
	if ix < 0 || ix >= productIDWords {
		return 0, fmt.Errorf("sttc4: word index %d out of range", ix)
	}
	offset := ix * common.WordSize
	w, ok := common.CheckWord(r[offset:])
	if !ok {
		return 0, &CRCError{
			Offset:   offset,
			Expected: common.CRC8(r[offset : offset+2]),
			Actual:   r[offset+2],
		}
	}
	return w, nil
}

// productID assembles the id from words 0 and 1. The CRC bytes between them
// are not part of the value.
func (r *productIDResponse) productID() (ProductID, error) {
	high, err := r.word(0)
	if err != nil {
		return 0, err
	}
	low, err := r.word(1)
	if err != nil {
		return 0, err
	}
	return ProductID(uint32(high)<<16 | uint32(low)), nil
}
