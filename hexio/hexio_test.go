// Copyright 2026 The Flash Tools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hexio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emtools/flash/memmap"
)

func TestReadWriteRoundTrip(t *testing.T) {
	m := memmap.New()
	require.NoError(t, m.Set(0x0, []byte{0x01, 0x02, 0x03, 0x04}))
	require.NoError(t, m.Set(0x1000, bytes.Repeat([]byte{0xa9}, 0x40)))
	require.NoError(t, m.Set(0x10001000, []byte{0x12, 0x34}))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m))
	re, err := Read(&buf)
	require.NoError(t, err)
	require.True(t, m.Equal(re))
}

func TestReadMalformed(t *testing.T) {
	_, err := Read(strings.NewReader("not an intel hex file\n"))
	require.Error(t, err)
}

func TestReadFile(t *testing.T) {
	m := memmap.New()
	require.NoError(t, m.Set(0x100, []byte{0xde, 0xad, 0xbe, 0xef}))
	name := filepath.Join(t.TempDir(), "app.hex")
	require.NoError(t, WriteFile(name, m))

	img, err := ReadFile(name)
	require.NoError(t, err)
	require.Equal(t, "app.hex", img.Name)
	require.True(t, m.Equal(img.Map))

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.hex"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
