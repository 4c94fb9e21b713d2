// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/emtools/flash/device"
	"github.com/emtools/flash/flashmap/internal/cmd/regions"
	"github.com/emtools/flash/flashmap/internal/util"
	"github.com/emtools/flash/hexio"
	"github.com/emtools/flash/memmap"
	"github.com/emtools/flash/policy"
	"github.com/emtools/flash/region"
)

const Descr = "check whether image files can be safely written to a device"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [OPTIONS] -t DUMP HEX...\nOptions:\n", cmd)
		fs.PrintDefaults()
	}
	dev := fs.String(
		"d", "nrf52",
		"device `family`: "+strings.Join(device.Names(), ", "),
	)
	target := fs.String("t", "", "Intel HEX `dump` of the device's current content")
	out := fs.String("o", "", "write the payload to `file` as Intel HEX")
	fs.Parse(args)
	if fs.NArg() == 0 || *target == "" {
		fs.Usage()
		os.Exit(1)
	}
	info, ok := device.ByName(*dev)
	if !ok {
		util.Fatal("unknown device family: %s", *dev)
	}
	dump, err := hexio.ReadFile(*target)
	util.FatalErr(*target, err)
	files := make(map[string]*memmap.Map, fs.NArg())
	maps := make([]*memmap.Map, 0, fs.NArg())
	for _, name := range fs.Args() {
		img, err := hexio.ReadFile(name)
		util.FatalErr(name, err)
		files[img.Name] = img.Map
		maps = append(maps, img.Map)
	}
	flat := memmap.Merge(maps...)

	cl := region.Classifier{
		Device:              info,
		LooksLikeSoftDevice: device.SoftDeviceDetector(info),
	}
	devRegs := cl.Classify(dump.Map, nil, nil)
	fileRegs := cl.Classify(flat, files, devRegs)
	fmt.Println("device:")
	regions.Print(os.Stdout, devRegs)
	fmt.Println("files:")
	regions.Print(os.Stdout, fileRegs)

	if !policy.CanWrite(dump.Map, info.UICRBaseAddr, info.UICRSize, flat) {
		util.Fatal(
			"write refused: the configuration page at %#x differs from "+
				"the loaded files and is not erased",
			info.UICRBaseAddr,
		)
	}
	payload := policy.BuildWritePayload(
		flat, dump.Map, info.UICRBaseAddr, info.UICRSize, info.PageSize,
	)
	var total uint64
	fmt.Println("payload:")
	for _, b := range payload {
		fmt.Printf("%#010x-%#010x %8d\n", b.Addr, b.End(), len(b.Data))
		total += uint64(len(b.Data))
	}
	fmt.Printf("%d bytes in %d pages\n", total, len(payload))
	if *out != "" {
		m := memmap.New()
		for _, b := range payload {
			util.FatalErr(*out, m.Set(b.Addr, b.Data))
		}
		util.FatalErr(*out, hexio.WriteFile(*out, m))
	}
}
