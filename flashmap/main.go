// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Flashmap analyzes firmware memory images for flashing: it classifies
// the regions of Intel HEX files, flattens overlapping images and checks
// whether a set of images can be safely written to a device dump.
package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/emtools/flash/flashmap/internal/cmd/merge"
	"github.com/emtools/flash/flashmap/internal/cmd/plan"
	"github.com/emtools/flash/flashmap/internal/cmd/regions"
)

type tool struct {
	descr string
	main  func(cmd string, args []string)
}

var tools = map[string]tool{
	"merge":   {merge.Descr, merge.Main},
	"plan":    {plan.Descr, plan.Main},
	"regions": {regions.Descr, regions.Main},
}

func printToolList() {
	names := slices.Sorted(maps.Keys(tools))
	maxLen := 0
	for _, k := range names {
		if maxLen < len(k) {
			maxLen = len(k)
		}
	}
	uw := os.Stderr
	uw.WriteString("Usage:\n  flashmap COMMAND [ARGUMENTS]\n\n")
	uw.WriteString("Available commands:\n")
	for _, name := range names {
		fmt.Fprintf(uw, "  %*s  %s\n", maxLen, name, tools[name].descr)
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" {
		printToolList()
		return
	}
	tool, ok := tools[os.Args[1]]
	if !ok {
		printToolList()
		os.Exit(1)
	}
	tool.main(os.Args[1], os.Args[2:])
}
