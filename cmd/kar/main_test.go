// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"

	"github.com/devblok/sxs/utility/kar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressListExtract(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "textures"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "scene.xml"), []byte("<sxs/>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "textures", "wood.png"), []byte("wood"), 0644))

	out := filepath.Join(t.TempDir(), "scene.kar")
	require.NoError(t, compressFiles(src, out, kar.Header{Author: "tester", Version: 3}))
	assert.Error(t, compressFiles(src, out, kar.Header{}), "must not overwrite")

	var listing bytes.Buffer
	require.NoError(t, listFiles(out, &listing))
	assert.Contains(t, listing.String(), "author: tester")
	assert.Contains(t, listing.String(), "version: 3")
	assert.Contains(t, listing.String(), "textures/wood.png")

	dst := t.TempDir()
	require.NoError(t, extractFiles(out, dst))
	data, err := os.ReadFile(filepath.Join(dst, "textures", "wood.png"))
	require.NoError(t, err)
	assert.Equal(t, "wood", string(data))
}

func TestCompressSingleFile(t *testing.T) {
	src := t.TempDir()
	file := filepath.Join(src, "scene.xml")
	require.NoError(t, os.WriteFile(file, []byte("<sxs/>"), 0644))

	out := filepath.Join(t.TempDir(), "single.kar")
	require.NoError(t, compressFiles(file, out, kar.Header{}))

	archive, err := kar.OpenFile(out)
	require.NoError(t, err)
	defer archive.Close()
	assert.Equal(t, []string{"scene.xml"}, archive.Names())
}

func TestExtractRejectsEscapingNames(t *testing.T) {
	var header bytes.Buffer
	require.NoError(t, gob.NewEncoder(&header).Encode(kar.Header{
		Author: "mallory",
		Index:  []kar.IndexEntry{{Name: "../escaped.txt", Size: 4, CompressedSize: 4}},
	}))

	data := append([]byte{}, kar.Magic[:]...)
	data = binary.LittleEndian.AppendUint64(data, uint64(header.Len()))
	data = append(data, header.Bytes()...)
	data = append(data, "evil"...)

	out := filepath.Join(t.TempDir(), "evil.kar")
	require.NoError(t, os.WriteFile(out, data, 0644))

	root := t.TempDir()
	dst := filepath.Join(root, "dst")
	err := extractFiles(out, dst)
	assert.ErrorIs(t, err, kar.ErrInvalidName)
	assert.NoFileExists(t, filepath.Join(root, "escaped.txt"))
}
