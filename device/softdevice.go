// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package device

import (
	"encoding/binary"

	"github.com/emtools/flash/memmap"
)

// A SoftDevice image ships combined with the MBR, so it occupies the
// bottom of flash and carries an information structure a fixed distance
// above the image start. The magic word in that structure identifies the
// image as a radio stack.
const (
	sdInfoStructAddr = 0x3000
	sdMagicOffset    = 0x4
	sdMagicValue     = 0x51b1e5db
)

// SoftDeviceDetector returns the stock radio-stack detection predicate
// for the given device. The region classifier takes the predicate as an
// input, so callers with additional knowledge, a different vendor table
// for example, may substitute their own.
func SoftDeviceDetector(info Info) func(memmap.Block) bool {
	return func(b memmap.Block) bool {
		if b.Addr != info.MBRBaseAddr {
			return false
		}
		off := sdInfoStructAddr + sdMagicOffset
		if off+4 > len(b.Data) {
			return false
		}
		return binary.LittleEndian.Uint32(b.Data[off:]) == sdMagicValue
	}
}
