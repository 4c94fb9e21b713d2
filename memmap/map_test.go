// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustMap(t *testing.T, blocks ...Block) *Map {
	t.Helper()
	m := New()
	for _, b := range blocks {
		require.NoError(t, m.Set(b.Addr, b.Data))
	}
	return m
}

func fill(n int, v byte) []byte {
	d := make([]byte, n)
	for i := range d {
		d[i] = v
	}
	return d
}

func TestFromBytes(t *testing.T) {
	m, err := FromBytes(0x100, []byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, []Block{{0x100, []byte{1, 2, 3}}}, m.Blocks())
	require.Equal(t, uint64(3), m.Size())

	var rerr *RangeError
	_, err = FromBytes(0x100, nil)
	require.ErrorAs(t, err, &rerr)

	_, err = FromBytes(0xffffffff, []byte{1, 2})
	require.ErrorAs(t, err, &rerr)

	// a block may end exactly at the top of the address space
	m, err = FromBytes(0xffffffff, []byte{1})
	require.NoError(t, err)
	require.Equal(t, uint64(1<<32), m.Blocks()[0].End())
}

func TestSet(t *testing.T) {
	tests := []struct {
		name string
		pre  []Block
		addr uint32
		data []byte
		want []Block
	}{
		{
			name: "disjoint",
			pre:  []Block{{0x0, fill(4, 0x11)}},
			addr: 0x100, data: fill(4, 0x22),
			want: []Block{{0x0, fill(4, 0x11)}, {0x100, fill(4, 0x22)}},
		},
		{
			name: "adjacent coalesce",
			pre:  []Block{{0x0, fill(4, 0x11)}},
			addr: 0x4, data: fill(4, 0x22),
			want: []Block{{0x0, []byte{0x11, 0x11, 0x11, 0x11, 0x22, 0x22, 0x22, 0x22}}},
		},
		{
			name: "overwrite middle",
			pre:  []Block{{0x0, fill(8, 0x11)}},
			addr: 0x2, data: fill(2, 0x22),
			want: []Block{{0x0, []byte{0x11, 0x11, 0x22, 0x22, 0x11, 0x11, 0x11, 0x11}}},
		},
		{
			name: "overwrite whole",
			pre:  []Block{{0x4, fill(4, 0x11)}},
			addr: 0x0, data: fill(16, 0x22),
			want: []Block{{0x0, fill(16, 0x22)}},
		},
		{
			name: "bridge two blocks",
			pre:  []Block{{0x0, fill(4, 0x11)}, {0x8, fill(4, 0x33)}},
			addr: 0x2, data: fill(8, 0x22),
			want: []Block{{0x0, []byte{
				0x11, 0x11, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x33, 0x33,
			}}},
		},
		{
			name: "trim head of following block",
			pre:  []Block{{0x8, fill(8, 0x11)}},
			addr: 0x4, data: fill(8, 0x22),
			want: []Block{{0x4, []byte{
				0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x22, 0x11, 0x11, 0x11, 0x11,
			}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMap(t, tt.pre...)
			require.NoError(t, m.Set(tt.addr, tt.data))
			require.Equal(t, tt.want, m.Blocks())
		})
	}
}

func TestSetErrors(t *testing.T) {
	m := mustMap(t, Block{0x0, fill(4, 0x11)})
	var rerr *RangeError
	require.ErrorAs(t, m.Set(0x10, nil), &rerr)
	require.ErrorAs(t, m.Set(0xfffffffe, fill(4, 0x22)), &rerr)
	// a failed Set leaves the map untouched
	require.Equal(t, []Block{{0x0, fill(4, 0x11)}}, m.Blocks())
}

func TestSetDoesNotAliasInput(t *testing.T) {
	data := fill(4, 0x11)
	m := mustMap(t, Block{0x0, data})
	data[0] = 0x99
	b, ok := m.Get(0)
	require.True(t, ok)
	require.Equal(t, byte(0x11), b)
}

func TestSlice(t *testing.T) {
	m := mustMap(t, Block{0x10, fill(0x10, 0x11)}, Block{0x40, fill(0x10, 0x22)})

	s, err := m.Slice(0x18, 0x30)
	require.NoError(t, err)
	require.Equal(t, []Block{
		{0x18, fill(8, 0x11)},
		{0x40, fill(8, 0x22)},
	}, s.Blocks())

	// absent addresses stay absent, never zero filled
	s, err = m.Slice(0x20, 0x20)
	require.NoError(t, err)
	require.True(t, s.IsEmpty())

	// zero length yields an empty map
	s, err = m.Slice(0x10, 0)
	require.NoError(t, err)
	require.True(t, s.IsEmpty())

	var rerr *RangeError
	_, err = m.Slice(0xffffffff, 2)
	require.ErrorAs(t, err, &rerr)
}

func TestCut(t *testing.T) {
	m := mustMap(t, Block{0x0, fill(0x10, 0x11)}, Block{0x20, fill(0x10, 0x22)})
	c := m.Cut(0x8, 0x20)
	require.Equal(t, []Block{
		{0x0, fill(8, 0x11)},
		{0x28, fill(8, 0x22)},
	}, c.Blocks())
	// the source is untouched
	require.Equal(t, uint64(0x20), m.Size())

	require.True(t, m.Cut(0x0, 0x40).IsEmpty())
	require.True(t, m.Equal(m.Cut(0x100, 0x10)))
}

func TestContains(t *testing.T) {
	m := mustMap(t, Block{0x0, []byte{1, 2, 3, 4}}, Block{0x10, []byte{5, 6, 7, 8}})

	// reflexive, and the empty map is contained in every map
	require.True(t, m.Contains(m))
	require.True(t, m.Contains(New()))
	require.True(t, New().Contains(New()))

	sub := mustMap(t, Block{0x2, []byte{3, 4}}, Block{0x10, []byte{5}})
	require.True(t, m.Contains(sub))

	// subset, not set equality: m has more bytes than sub
	require.False(t, sub.Contains(m))

	wrongValue := mustMap(t, Block{0x2, []byte{3, 9}})
	require.False(t, m.Contains(wrongValue))

	missing := mustMap(t, Block{0x8, []byte{1}})
	require.False(t, m.Contains(missing))

	spanning := mustMap(t, Block{0x2, []byte{3, 4}}, Block{0x12, []byte{7, 8}})
	require.True(t, m.Contains(spanning))
}

func TestGet(t *testing.T) {
	m := mustMap(t, Block{0x10, []byte{1, 2, 3}})
	for _, tt := range []struct {
		addr uint32
		b    byte
		ok   bool
	}{
		{0x0f, 0, false},
		{0x10, 1, true},
		{0x12, 3, true},
		{0x13, 0, false},
	} {
		b, ok := m.Get(tt.addr)
		if ok != tt.ok || b != tt.b {
			t.Errorf("Get(%#x) = %d, %v; want %d, %v", tt.addr, b, ok, tt.b, tt.ok)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := mustMap(t, Block{0x0, []byte{1, 2, 3}})
	c := m.Clone()
	require.True(t, m.Equal(c))
	require.NoError(t, c.Set(0x1, []byte{9}))
	b, _ := m.Get(0x1)
	require.Equal(t, byte(2), b)
}

func TestRangeErrorMessage(t *testing.T) {
	err := New().Set(0x20, nil)
	var rerr *RangeError
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, "set", rerr.Op)
	require.Contains(t, err.Error(), "empty range")
}
