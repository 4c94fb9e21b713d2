// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import (
	"slices"
	"sort"

	"github.com/emtools/flash/device"
	"github.com/emtools/flash/memmap"
)

// A Classifier labels the data runs of a flattened memory image. A run is
// a block of the flattened map: a flattened image keeps a block boundary
// wherever the set of contributing files changes, so two images that touch
// each other stay separate regions. LooksLikeSoftDevice is the injected
// radio-stack signature predicate (see device.SoftDeviceDetector for the
// stock one); when nil the radio stack is never detected.
type Classifier struct {
	Device              device.Info
	LooksLikeSoftDevice func(memmap.Block) bool
}

// Classify returns the labeled regions of m in address order. Classify
// never fails: runs that match no heuristic keep the None name.
//
// files holds the per-file source maps that were flattened into m; they
// tag every region with the names of the files that contributed bytes to
// it. Either may be nil when classifying a device-side image.
//
// deviceRegions, when non-nil, is the classification of the image
// currently on the target. It is consulted when the file image alone does
// not pin down the radio stack or bootloader location.
//
// The caller must pass a consistent snapshot: m must be the flattened
// merge of exactly the maps in files, and deviceRegions must come from
// the same session as Device.
func (c *Classifier) Classify(m *memmap.Map, files map[string]*memmap.Map, deviceRegions []Region) []Region {
	dev := c.Device
	blocks := m.Blocks()
	regs := make([]Region, 0, len(blocks))
	for _, b := range blocks {
		regs = append(regs, Region{
			Name:  None,
			Addr:  b.Addr,
			Size:  uint32(len(b.Data)),
			Files: contributors(files, uint64(b.Addr), b.End()),
		})
	}

	// The configuration page lies outside the code area at a fixed
	// address, no heuristic needed.
	for i := range regs {
		if dev.UICRSize != 0 && regs[i].Addr >= dev.UICRBaseAddr &&
			regs[i].End() <= uint64(dev.UICRBaseAddr)+uint64(dev.UICRSize) {
			regs[i].Name = UICR
		}
	}

	sdIdx := -1
	if c.LooksLikeSoftDevice != nil {
		for i, b := range blocks {
			if regs[i].Name == None && c.LooksLikeSoftDevice(b) {
				regs[i].Name = SoftDevice
				sdIdx = i
				break
			}
		}
	}
	// Fall back to the radio stack already present on the target.
	sdEnd := uint64(0)
	if sdIdx >= 0 {
		sdEnd = regs[sdIdx].End()
	} else {
		for _, r := range deviceRegions {
			if r.Name == SoftDevice {
				sdEnd = r.End()
				break
			}
		}
	}

	// With a radio stack in play the bottom of flash holds the MBR.
	// Without one it is the application vector table, handled below.
	if sdEnd != 0 && dev.MBRSize != 0 {
		for i := range regs {
			if regs[i].Name == None && regs[i].Addr == dev.MBRBaseAddr &&
				regs[i].End() <= uint64(dev.MBRBaseAddr)+uint64(dev.MBRSize) {
				regs[i].Name = MBR
			}
		}
	}

	bootAddr := dev.BootloaderAddr
	for _, r := range deviceRegions {
		if r.Name == Bootloader {
			bootAddr = r.Addr
			break
		}
	}
	if bootAddr != 0 {
		for i := range regs {
			if regs[i].Name == None && regs[i].Addr == bootAddr {
				regs[i].Name = Bootloader
				break
			}
		}
	}

	if sdEnd != 0 {
		// The application starts at the first page boundary at or after
		// the radio stack's end, one page further when that boundary
		// falls on data that already has a role. A run that does not
		// start exactly at the boundary is left unlabeled rather than
		// guessed at.
		cand := roundUp(sdEnd, dev.PageSize)
		for i := range regs {
			if regs[i].Name != None && uint64(regs[i].Addr) <= cand && cand < regs[i].End() {
				cand += uint64(dev.PageSize)
				break
			}
		}
		for i := range regs {
			if regs[i].Name == None && uint64(regs[i].Addr) == cand {
				regs[i].Name = Application
				break
			}
		}
	} else {
		// No radio stack on either side: only a self-hosted image that
		// starts exactly at the vector table address counts as the
		// application.
		for i := range regs {
			if regs[i].Name == None && regs[i].Addr == dev.VectorTableAddr {
				regs[i].Name = Application
				break
			}
		}
	}

	// A bootloader image may leave holes, a settings page for example.
	// Unlabeled runs between its start and the end of flash belong to it,
	// they must not show up as separate regions.
	regs = foldGaps(regs, Bootloader, uint64(dev.RomSize))

	// Same for the application, bounded above by the bootloader when
	// there is one.
	upper := uint64(dev.RomSize)
	for _, r := range regs {
		if r.Name == Bootloader {
			upper = uint64(r.Addr)
			break
		}
	}
	regs = foldGaps(regs, Application, upper)

	return regs
}

// contributors returns the sorted names of the files whose maps cover any
// byte of [lo, hi).
func contributors(files map[string]*memmap.Map, lo, hi uint64) []string {
	var out []string
	for name, fm := range files {
		for _, b := range fm.Blocks() {
			if uint64(b.Addr) < hi && b.End() > lo {
				out = append(out, name)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// foldGaps merges every unlabeled region lying strictly between the start
// of the first region named name and limit into that region. The merged
// region spans from its original start to the end of the last folded run.
func foldGaps(regs []Region, name Name, limit uint64) []Region {
	var host *Region
	out := make([]Region, 0, len(regs))
	for _, r := range regs {
		if host == nil && r.Name == name {
			out = append(out, r)
			host = &out[len(out)-1]
			continue
		}
		if host != nil && r.Name == None &&
			uint64(r.Addr) > uint64(host.Addr) && r.End() <= limit {
			host.Size = uint32(r.End() - uint64(host.Addr))
			host.Files = mergeFiles(host.Files, r.Files)
			continue
		}
		out = append(out, r)
	}
	return out
}

func mergeFiles(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	out := append(append([]string(nil), a...), b...)
	sort.Strings(out)
	return slices.Compact(out)
}

func roundUp(addr uint64, page uint32) uint64 {
	p := uint64(page)
	if p == 0 {
		return addr
	}
	return (addr + p - 1) / p * p
}
