// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devblok/sxs/utility/kar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testString1 = "idunvovkjnreovmegihjbrqlkmfrjnb"
	testString2 = strings.Repeat("idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb", 64)
)

func buildArchive(t *testing.T) []byte {
	builder, err := kar.NewBuilder(kar.Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	require.NoError(t, err)
	defer builder.Close()

	require.NoError(t, builder.Add("test", strings.NewReader(testString1)))
	require.NoError(t, builder.Add("dir/test2", strings.NewReader(testString2)))

	var buf bytes.Buffer
	_, err = builder.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestCreateAndRead(t *testing.T) {
	ar, err := kar.Open(bytes.NewReader(buildArchive(t)))
	require.NoError(t, err)

	f, err := ar.Open("test")
	require.NoError(t, err)
	defer f.Close()

	result, err := ioutil.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, testString1, string(result))
	assert.Equal(t, int64(len(testString1)), f.Size())
}

func TestCreateAndReadAll(t *testing.T) {
	ar, err := kar.Open(bytes.NewReader(buildArchive(t)))
	require.NoError(t, err)

	assert.Equal(t, []string{"dir/test2", "test"}, ar.Names())
	assert.Equal(t, "devblok", ar.Header().Author)

	data, err := ar.ReadAll("dir/test2")
	require.NoError(t, err)
	assert.Equal(t, testString2, string(data))

	_, err = ar.ReadAll("missing")
	assert.ErrorIs(t, err, kar.ErrNotFound)
}

func TestOpenRejectsGarbage(t *testing.T) {
	_, err := kar.Open(bytes.NewReader([]byte("PK\x03\x04 definitely a zip")))
	assert.ErrorIs(t, err, kar.ErrFileFormat)

	_, err = kar.Open(bytes.NewReader([]byte("KAR")))
	assert.ErrorIs(t, err, kar.ErrFileFormat)
}

type bareReaderAt struct{ r io.ReaderAt }

func (b bareReaderAt) ReadAt(p []byte, off int64) (int, error) { return b.r.ReadAt(p, off) }

func TestOpenRejectsOversizedHeader(t *testing.T) {
	data := append([]byte{}, kar.Magic[:]...)
	data = binary.LittleEndian.AppendUint64(data, 1<<62)
	data = append(data, "tiny"...)

	_, err := kar.Open(bytes.NewReader(data))
	assert.ErrorIs(t, err, kar.ErrFileFormat)

	_, err = kar.Open(bareReaderAt{bytes.NewReader(data)})
	assert.ErrorIs(t, err, kar.ErrFileFormat)

	// one byte past what the archive holds
	data = append(data[:kar.MagicLength], make([]byte, kar.HeaderSizeNumberLength)...)
	binary.LittleEndian.PutUint64(data[kar.MagicLength:], 5)
	data = append(data, "tiny"...)
	_, err = kar.Open(bytes.NewReader(data))
	assert.ErrorIs(t, err, kar.ErrFileFormat)

	path := filepath.Join(t.TempDir(), "huge.kar")
	big := append([]byte{}, kar.Magic[:]...)
	big = binary.LittleEndian.AppendUint64(big, 1<<40)
	require.NoError(t, os.WriteFile(path, big, 0644))
	_, err = kar.OpenFile(path)
	assert.ErrorIs(t, err, kar.ErrFileFormat)
}

func TestValidName(t *testing.T) {
	assert.True(t, kar.ValidName("textures/board.png"))
	assert.True(t, kar.ValidName("scene.xml"))
	assert.False(t, kar.ValidName("../escaped.txt"))
	assert.False(t, kar.ValidName("textures/../../escaped.txt"))
	assert.False(t, kar.ValidName("/etc/passwd"))
	assert.False(t, kar.ValidName(""))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.kar")
	require.NoError(t, os.WriteFile(path, buildArchive(t), 0o644))

	ar, err := kar.OpenFile(path)
	require.NoError(t, err)
	defer ar.Close()

	data, err := ar.ReadAll("test")
	require.NoError(t, err)
	assert.Equal(t, testString1, string(data))
}
