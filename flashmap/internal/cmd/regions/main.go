// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regions

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/emtools/flash/device"
	"github.com/emtools/flash/flashmap/internal/util"
	"github.com/emtools/flash/hexio"
	"github.com/emtools/flash/memmap"
	"github.com/emtools/flash/region"
)

const Descr = "classify the regions of one or more firmware image files"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [OPTIONS] HEX...\nOptions:\n", cmd)
		fs.PrintDefaults()
	}
	dev := fs.String(
		"d", "nrf52",
		"device `family`: "+strings.Join(device.Names(), ", "),
	)
	fs.Parse(args)
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}
	info, ok := device.ByName(*dev)
	if !ok {
		util.Fatal("unknown device family: %s", *dev)
	}
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
	regs := cl.Classify(flat, files, nil)
	Print(os.Stdout, regs)
	if det := region.Detected(regs); len(det) > 0 {
		names := make([]string, 0, len(det))
		for n := range det {
			names = append(names, n.String())
		}
		sort.Strings(names)
		fmt.Println("detected:", strings.Join(names, " "))
	}
}

// Print writes one line per region: range, size, name and the files that
// contributed to it.
func Print(w io.Writer, regs []region.Region) {
	for _, r := range regs {
		files := ""
		if len(r.Files) > 0 {
			files = "  " + strings.Join(r.Files, ",")
		}
		fmt.Fprintf(
			w, "%#010x-%#010x %8d  %-11s%s\n",
			r.Addr, r.End(), r.Size, r.Name, files,
		)
	}
}
