// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package device describes the flash geometry of the supported device
// families.
package device

import (
	"maps"
	"slices"
)

// Family identifies a device family.
type Family int

const (
	Unknown Family = iota
	NRF51
	NRF52
)

var familyNames = [...]string{"unknown", "nrf51", "nrf52"}

func (f Family) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return familyNames[Unknown]
}

// Info describes a connected device: its flash, RAM and configuration
// page geometry together with the family-fixed addresses the region
// heuristics rely on. An Info is immutable for the duration of a session.
type Info struct {
	Family       Family
	RomSize      uint32
	RamSize      uint32
	PageSize     uint32 // erase/write granularity of the flash
	CodePageSize uint32

	// The UICR is the persistent configuration page with special erase
	// rules.
	UICRBaseAddr uint32
	UICRSize     uint32

	// Family-fixed code area addresses.
	MBRBaseAddr     uint32
	MBRSize         uint32
	BootloaderAddr  uint32 // typical bootloader start, 0 when unknown
	VectorTableAddr uint32 // application vector table without a SoftDevice
}

var families = map[string]Info{
	"nrf51": {
		Family:       NRF51,
		RomSize:      0x40000,
		RamSize:      0x8000,
		PageSize:     0x400,
		CodePageSize: 0x400,
		UICRBaseAddr: 0x10001000,
		UICRSize:     0x400,
		MBRSize:      0x1000,
		// serial DFU bootloader of the SDK
		BootloaderAddr: 0x3c000,
	},
	"nrf52": {
		Family:         NRF52,
		RomSize:        0x80000,
		RamSize:        0x10000,
		PageSize:       0x1000,
		CodePageSize:   0x1000,
		UICRBaseAddr:   0x10001000,
		UICRSize:       0x1000,
		MBRSize:        0x1000,
		BootloaderAddr: 0x78000,
	},
}

// ByName returns the geometry of the named family.
func ByName(name string) (Info, bool) {
	info, ok := families[name]
	return info, ok
}

// Names returns the known family names in alphabetical order.
func Names() []string {
	return slices.Sorted(maps.Keys(families))
}
