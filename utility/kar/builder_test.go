// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndWrite(t *testing.T) {
	builder, err := NewBuilder(Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	require.NoError(t, err)
	defer builder.Close()

	require.NoError(t, builder.Add("test", bytes.NewReader([]byte("idunvovkjnreovmegihjbrqlkmfrjnb"))))
	require.NoError(t, builder.Add("test2", bytes.NewReader([]byte("idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb"))))
	assert.Len(t, builder.files, 2)

	err = builder.Add("test", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrDuplicateName)

	err = builder.Add("../escaped.txt", bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Len(t, builder.files, 2)

	var buf bytes.Buffer
	num, err := builder.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), num)
	assert.Equal(t, Magic[:], buf.Bytes()[:MagicLength])

	size, err := binaryToint64(buf.Bytes()[MagicLength:])
	require.NoError(t, err)

	var header Header
	require.NoError(t, gobDecode(&header, buf.Bytes()[MagicLength+HeaderSizeNumberLength:MagicLength+HeaderSizeNumberLength+size]))
	require.Len(t, header.Index, 2)
	assert.Equal(t, int64(0), header.Index[0].Offset)
	assert.Equal(t, header.Index[0].CompressedSize, header.Index[1].Offset)
	assert.Equal(t, "devblok", header.Author)
}

func TestInt64Encoding(t *testing.T) {
	for _, n := range []int64{0, 1, 255, 1 << 40} {
		got, err := binaryToint64(int64ToBinary(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
	_, err := binaryToint64([]byte{1, 2})
	assert.ErrorIs(t, err, ErrFileFormat)
}
