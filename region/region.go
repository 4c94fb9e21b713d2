// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package region labels the contiguous data runs of a firmware image with
// their semantic role: radio stack, application, bootloader, MBR or the
// UICR configuration page.
package region

// Name is the semantic role of a region. A region that matched no
// heuristic keeps the None name, which is not an error.
type Name int

const (
	None Name = iota
	Application
	SoftDevice
	Bootloader
	MBR
	UICR
)

var names = [...]string{"none", "application", "softdevice", "bootloader", "mbr", "uicr"}

func (n Name) String() string {
	if int(n) < len(names) {
		return names[n]
	}
	return "unknown"
}

// A Region is a labeled contiguous address range of a memory image.
// Regions are derived data: they are rebuilt wholesale on every
// classification pass and never patched in place or persisted.
type Region struct {
	Name Name
	Addr uint32
	Size uint32

	// Files holds the sorted names of the source files that contributed
	// at least one byte to the region. It may be empty (a device-side
	// region) or hold several entries.
	Files []string
}

// End returns the address one past the region's last byte.
func (r Region) End() uint64 { return uint64(r.Addr) + uint64(r.Size) }

// A NameSet records which region kinds are present in a classified image.
// It is a projection for display purposes, derived on demand.
type NameSet map[Name]bool

// Detected returns the set of non-gap region names present in regs.
func Detected(regs []Region) NameSet {
	s := make(NameSet)
	for _, r := range regs {
		if r.Name != None {
			s[r.Name] = true
		}
	}
	return s
}
