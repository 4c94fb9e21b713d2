// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hexio bridges Intel HEX files, parsed and written by the gohex
// package, and the sparse memory maps used by the analysis code.
package hexio

import (
	"io"
	"os"
	"path/filepath"

	"github.com/marcinbor85/gohex"

	"github.com/emtools/flash/memmap"
)

// An Image is a memory map together with the name it was loaded from.
type Image struct {
	Name string
	Map  *memmap.Map
}

// Read parses an Intel HEX stream into a sparse memory map.
func Read(r io.Reader) (*memmap.Map, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, err
	}
	m := memmap.New()
	for _, s := range mem.GetDataSegments() {
		if err := m.Set(s.Address, s.Data); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ReadFile loads the named Intel HEX file. The image is named after the
// file's base name.
func ReadFile(name string) (*Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, err
	}
	return &Image{Name: filepath.Base(name), Map: m}, nil
}

// Write dumps the map as Intel HEX text, 16 data bytes per record.
func Write(w io.Writer, m *memmap.Map) error {
	mem := gohex.NewMemory()
	for _, b := range m.Blocks() {
		if err := mem.AddBinary(b.Addr, b.Data); err != nil {
			return err
		}
	}
	return mem.DumpIntelHex(w, 16)
}

// WriteFile writes the map to the named file as Intel HEX.
func WriteFile(name string, m *memmap.Map) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := Write(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
