// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memmap implements a sparse byte-addressed memory image and the
// set operations used to combine several images into one.
package memmap

import (
	"bytes"
	"slices"
	"sort"
)

// addrSpace is the size of the supported address space. A block must fit
// entirely below this limit.
const addrSpace = 1 << 32

// A Block is a contiguous run of bytes at a fixed address. Its data is
// owned by the map that holds it.
type Block struct {
	Addr uint32
	Data []byte
}

// End returns the address one past the last byte of the block. The result
// is 64-bit because a block may end exactly at the top of the 32-bit
// address space.
func (b Block) End() uint64 { return uint64(b.Addr) + uint64(len(b.Data)) }

// A Map is a sparse memory image: an ordered collection of non-empty,
// non-overlapping blocks. Blocks may touch without being merged: Set
// coalesces the data it inserts with its neighbors, but a flattened map
// keeps a block boundary wherever the set of contributing sources
// changes, so the region classifier can tell the contributions apart.
// Addresses without a block carry no value at all, there is no implicit
// padding.
//
// The analysis code treats maps as immutable snapshots: operations like
// Slice, Cut, Overlap and Flatten return new maps and leave their inputs
// untouched.
type Map struct {
	blocks []Block
}

// New returns an empty map.
func New() *Map { return new(Map) }

// FromBytes returns a map holding a single block.
func FromBytes(addr uint32, data []byte) (*Map, error) {
	m := New()
	if err := m.Set(addr, data); err != nil {
		return nil, err
	}
	return m, nil
}

// Set inserts data at addr, overwriting any bytes already present in that
// range. Existing blocks partially covered by the new data are trimmed,
// fully covered ones are dropped. The data is copied.
func (m *Map) Set(addr uint32, data []byte) error {
	if err := checkRange("set", addr, uint64(len(data))); err != nil {
		return err
	}
	lo := uint64(addr)
	hi := lo + uint64(len(data))
	nd := append([]byte(nil), data...)
	out := make([]Block, 0, len(m.blocks)+1)
	inserted := false
	for _, b := range m.blocks {
		bs, be := uint64(b.Addr), b.End()
		if bs < lo {
			// the piece below the new range survives
			n := min(be, lo) - bs
			out = appendRun(out, b.Addr, b.Data[:n:n])
		}
		if !inserted && be > lo {
			out = appendRun(out, addr, nd)
			inserted = true
		}
		if be > hi {
			// the piece above the new range survives
			s := max(bs, hi)
			out = appendRun(out, uint32(s), b.Data[s-bs:])
		}
	}
	if !inserted {
		out = appendRun(out, addr, nd)
	}
	m.blocks = out
	return nil
}

// appendRun appends a run of bytes to the block list, coalescing it with
// the previous block when the two are contiguous. The full slice
// expression forces the append to reallocate so that byte arrays shared
// with older blocks are never written to.
func appendRun(out []Block, addr uint32, data []byte) []Block {
	if n := len(out) - 1; n >= 0 && out[n].End() == uint64(addr) {
		d := out[n].Data
		out[n].Data = append(d[:len(d):len(d)], data...)
		return out
	}
	return append(out, Block{addr, data})
}

// Slice returns a new map holding only the bytes of m that fall in
// [addr, addr+length). Blocks straddling a boundary are trimmed and
// addresses without data stay absent in the result.
func (m *Map) Slice(addr, length uint32) (*Map, error) {
	lo := uint64(addr)
	hi := lo + uint64(length)
	if hi > addrSpace {
		return nil, &RangeError{Op: "slice", Addr: addr, Len: uint64(length)}
	}
	out := New()
	for _, b := range m.blocks {
		bs, be := uint64(b.Addr), b.End()
		if be <= lo {
			continue
		}
		if bs >= hi {
			break
		}
		s, e := max(bs, lo), min(be, hi)
		d := append([]byte(nil), b.Data[s-bs:e-bs]...)
		out.blocks = append(out.blocks, Block{uint32(s), d})
	}
	return out, nil
}

// Cut returns a new map with the bytes in [addr, addr+length) removed.
// The range is clamped to the address space.
func (m *Map) Cut(addr, length uint32) *Map {
	lo := uint64(addr)
	hi := min(lo+uint64(length), uint64(addrSpace))
	out := New()
	for _, b := range m.blocks {
		bs, be := uint64(b.Addr), b.End()
		if be <= lo || bs >= hi {
			out.blocks = append(out.blocks, Block{b.Addr, append([]byte(nil), b.Data...)})
			continue
		}
		if bs < lo {
			out.blocks = append(out.blocks, Block{b.Addr, append([]byte(nil), b.Data[:lo-bs]...)})
		}
		if be > hi {
			out.blocks = append(out.blocks, Block{uint32(hi), append([]byte(nil), b.Data[hi-bs:]...)})
		}
	}
	return out
}

// Contains reports whether every byte present in other is present in m
// with an equal value. Addresses absent from other are not checked, so an
// empty map is contained in every map and every map contains itself. This
// is the test for "the device is already in the desired state": a subset
// check, not set equality.
func (m *Map) Contains(other *Map) bool {
	for _, ob := range other.blocks {
		os, oe := uint64(ob.Addr), ob.End()
		i := sort.Search(len(m.blocks), func(i int) bool {
			return m.blocks[i].End() > os
		})
		for pos := os; pos < oe; i++ {
			if i >= len(m.blocks) {
				return false
			}
			b := m.blocks[i]
			bs, be := uint64(b.Addr), b.End()
			if bs > pos {
				return false
			}
			e := min(be, oe)
			if !bytes.Equal(b.Data[pos-bs:e-bs], ob.Data[pos-os:e-os]) {
				return false
			}
			pos = e
		}
	}
	return true
}

// Get returns the byte at addr and whether the address holds any data.
func (m *Map) Get(addr uint32) (byte, bool) {
	i := sort.Search(len(m.blocks), func(i int) bool {
		return m.blocks[i].End() > uint64(addr)
	})
	if i == len(m.blocks) || m.blocks[i].Addr > addr {
		return 0, false
	}
	return m.blocks[i].Data[addr-m.blocks[i].Addr], true
}

// Blocks returns the blocks of the map in address order. The block data
// is shared with the map and must not be modified by the caller.
func (m *Map) Blocks() []Block { return slices.Clone(m.blocks) }

// Size returns the total number of bytes held by the map.
func (m *Map) Size() uint64 {
	var n uint64
	for _, b := range m.blocks {
		n += uint64(len(b.Data))
	}
	return n
}

// IsEmpty reports whether the map holds no data at all.
func (m *Map) IsEmpty() bool { return len(m.blocks) == 0 }

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	out := &Map{blocks: make([]Block, len(m.blocks))}
	for i, b := range m.blocks {
		out.blocks[i] = Block{b.Addr, append([]byte(nil), b.Data...)}
	}
	return out
}

// Equal reports whether two maps hold exactly the same bytes at exactly
// the same addresses. The block structure does not matter: a map built
// from one large write equals the same bytes assembled from several
// adjacent ones.
func (m *Map) Equal(other *Map) bool {
	return m.Contains(other) && other.Contains(m)
}
