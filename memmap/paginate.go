// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memmap

// Paginate re-buckets the map into blocks that do not cross pageSize
// boundaries. Blocks are trimmed to the actual data extents: no padding
// byte is invented for addresses the map does not cover. The returned
// blocks own their data.
func Paginate(m *Map, pageSize uint32) []Block {
	if pageSize == 0 {
		return nil
	}
	ps := uint64(pageSize)
	var out []Block
	for _, b := range m.blocks {
		bs, be := uint64(b.Addr), b.End()
		for pos := bs; pos < be; {
			e := min((pos/ps+1)*ps, be)
			out = append(out, Block{uint32(pos), append([]byte(nil), b.Data[pos-bs:e-bs]...)})
			pos = e
		}
	}
	return out
}

// PaginateFull returns every page touched by the map as a complete
// pageSize block with uncovered addresses filled with the pad byte. Used
// when the erase granularity of the target requires writing whole pages.
func PaginateFull(m *Map, pageSize uint32, pad byte) []Block {
	if pageSize == 0 {
		return nil
	}
	ps := uint64(pageSize)
	var out []Block
	page := func(addr uint64) *Block {
		if n := len(out) - 1; n >= 0 && uint64(out[n].Addr) == addr {
			return &out[n]
		}
		d := make([]byte, pageSize)
		for i := range d {
			d[i] = pad
		}
		out = append(out, Block{uint32(addr), d})
		return &out[len(out)-1]
	}
	for _, b := range m.blocks {
		bs, be := uint64(b.Addr), b.End()
		for pos := bs; pos < be; {
			pa := pos / ps * ps
			e := min(pa+ps, be)
			copy(page(pa).Data[pos-pa:], b.Data[pos-bs:e-bs])
			pos = e
		}
	}
	return out
}
