// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memmap

import "slices"

// A Part is a single source's contribution to a range of the address
// space. Source is the index of the map in the Overlap input. The data
// slice aliases the source map and must be treated as read-only.
type Part struct {
	Source int
	Data   []byte
}

// A Chunk is a range of the address space covered by at least one source.
// Parts are ordered like the Overlap input: the last part comes from the
// highest-priority source.
type Chunk struct {
	Addr  uint32
	Parts []Part
}

// End returns the address one past the chunk's last byte.
func (c Chunk) End() uint64 { return uint64(c.Addr) + uint64(len(c.Parts[0].Data)) }

// Overlaps is the decomposition of a set of maps into address-ordered
// chunks, each with a constant set of contributing sources.
type Overlaps []Chunk

// Overlap decomposes the address space covered by the given maps into
// chunks. A chunk carries the contribution of every covering source in
// input order, so later maps rank higher when the result is flattened.
// The ordering is stable: callers arrange their inputs lowest priority
// first. The sweep over block boundaries is linear in the total number of
// blocks of all inputs.
func Overlap(maps ...*Map) Overlaps {
	var bounds []uint64
	for _, m := range maps {
		for _, b := range m.blocks {
			bounds = append(bounds, uint64(b.Addr), b.End())
		}
	}
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)
	cur := make([]int, len(maps))
	var out Overlaps
	for i := 0; i+1 < len(bounds); i++ {
		lo, hi := bounds[i], bounds[i+1]
		var parts []Part
		for si, m := range maps {
			for cur[si] < len(m.blocks) && m.blocks[cur[si]].End() <= lo {
				cur[si]++
			}
			if cur[si] == len(m.blocks) {
				continue
			}
			b := m.blocks[cur[si]]
			if uint64(b.Addr) >= hi {
				continue
			}
			// b covers [lo, hi) entirely: lo and hi are adjacent
			// boundaries, so no block edge falls between them
			parts = append(parts, Part{si, b.Data[lo-uint64(b.Addr) : hi-uint64(b.Addr)]})
		}
		if parts != nil {
			out = append(out, Chunk{uint32(lo), parts})
		}
	}
	return out
}

// Flatten resolves every chunk to the bytes of its highest-priority
// contributor and returns the result as one map without residual
// overlaps. Chunks with a single contributor pass through unchanged. This
// is a deterministic last-writer-wins merge.
//
// Each chunk becomes its own block, so a block boundary of the result
// marks a change in the set of contributing sources. Images supplied by
// different files stay tellable apart even where they touch.
func (ov Overlaps) Flatten() *Map {
	out := New()
	for _, c := range ov {
		d := c.Parts[len(c.Parts)-1].Data
		out.blocks = append(out.blocks, Block{c.Addr, append([]byte(nil), d...)})
	}
	return out
}

// Merge flattens the given maps into one, later maps winning where they
// overlap earlier ones.
func Merge(maps ...*Map) *Map { return Overlap(maps...).Flatten() }
