// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package merge

import (
	"flag"
	"fmt"
	"os"

	"github.com/emtools/flash/flashmap/internal/util"
	"github.com/emtools/flash/hexio"
	"github.com/emtools/flash/memmap"
)

const Descr = "flatten several firmware image files into one"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [OPTIONS] HEX...\nOptions:\n", cmd)
		fs.PrintDefaults()
	}
	out := fs.String("o", "merged.hex", "output `file`")
	fs.Parse(args)
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}
	maps := make([]*memmap.Map, 0, fs.NArg())
	for _, name := range fs.Args() {
		img, err := hexio.ReadFile(name)
		util.FatalErr(name, err)
		maps = append(maps, img.Map)
	}
	// later files win where the inputs overlap
	flat := memmap.Merge(maps...)
	err := hexio.WriteFile(*out, flat)
	util.FatalErr(*out, err)
	fmt.Printf("%s: %d bytes in %d blocks\n", *out, flat.Size(), len(flat.Blocks()))
}
