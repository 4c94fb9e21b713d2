// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memmap

import "fmt"

// A RangeError reports a malformed block range: a zero-length block or one
// that does not fit the 32-bit address space. It fails the single Set or
// Slice call that produced it and is never swallowed.
type RangeError struct {
	Op   string // the failed operation, "set" or "slice"
	Addr uint32
	Len  uint64
}

func (e *RangeError) Error() string {
	if e.Len == 0 {
		return fmt.Sprintf("memmap: %s: empty range at %#x", e.Op, e.Addr)
	}
	return fmt.Sprintf(
		"memmap: %s: range %#x+%#x exceeds the 32-bit address space",
		e.Op, e.Addr, e.Len,
	)
}

func checkRange(op string, addr uint32, n uint64) error {
	if n == 0 || uint64(addr)+n > addrSpace {
		return &RangeError{Op: op, Addr: addr, Len: n}
	}
	return nil
}
