// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package policy decides whether a firmware image can be written to a
// device without silently corrupting its configuration page, and builds
// the page-aligned payload for the transport layer.
package policy

import "github.com/emtools/flash/memmap"

// erasedByte is what erased flash reads back as.
const erasedByte = 0xFF

// CanWrite reports whether the flattened file image may be written to a
// device whose current content is target. The write is safe when the
// device's configuration page at [cfgAddr, cfgAddr+cfgSize) is still
// erased, or when every byte the files would put there already matches
// the device. Anything else would require a full erase, which the write
// path never performs implicitly, so the write is refused.
//
// CanWrite is a pure predicate over its inputs: it never fails and
// performs no I/O. The caller must evaluate it before any mutating
// operation and block the write path entirely on a false result.
func CanWrite(target *memmap.Map, cfgAddr, cfgSize uint32, file *memmap.Map) bool {
	if cfgSize == 0 {
		return true
	}
	devPage, err := target.Slice(cfgAddr, cfgSize)
	if err != nil {
		// the configuration range does not fit the address space;
		// refuse rather than guess
		return false
	}
	if erased(devPage, cfgSize) {
		return true
	}
	filePage, err := file.Slice(cfgAddr, cfgSize)
	if err != nil {
		return false
	}
	return target.Contains(filePage)
}

// BuildWritePayload returns the page-aligned blocks to transmit for the
// flattened file image. When the device's configuration page is no longer
// erased, the configuration range is dropped from the payload: its
// content already matches the device (or CanWrite refused the write and
// the caller never got here), so transmitting it would be redundant.
func BuildWritePayload(file, target *memmap.Map, cfgAddr, cfgSize, pageSize uint32) []memmap.Block {
	out := file
	if cfgSize != 0 {
		devPage, err := target.Slice(cfgAddr, cfgSize)
		if err == nil && !erased(devPage, cfgSize) {
			out = file.Cut(cfgAddr, cfgSize)
		}
	}
	return memmap.Paginate(out, pageSize)
}

// erased reports whether page covers all size bytes of its range and
// every one reads back as the flash erase value.
func erased(page *memmap.Map, size uint32) bool {
	if page.Size() != uint64(size) {
		return false
	}
	for _, b := range page.Blocks() {
		for _, v := range b.Data {
			if v != erasedByte {
				return false
			}
		}
	}
	return true
}
