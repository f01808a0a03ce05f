package memo

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/xbase/pkg/codec"
)

// memoImage builds a memo file image: a header block followed by the given
// text blocks, each padded to the block size.
func memoImage(blocks ...[]byte) []byte {
	image := make([]byte, BlockSize)
	for _, b := range blocks {
		padded := make([]byte, BlockSize)
		copy(padded, b)
		image = append(image, padded...)
	}
	return image
}

func TestFile_Resolve(t *testing.T) {
	image := memoImage(
		[]byte("first memo\x1A\x1A"),
		[]byte("second memo, longer text\x1A"),
	)
	f := NewFile(bytes.NewReader(image), int64(len(image)))

	text, err := f.Resolve(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("first memo"), text)

	text, err = f.Resolve(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("second memo, longer text"), text)
}

func TestFile_ResolveSpanningBlocks(t *testing.T) {
	// Text longer than one block runs into the next; the terminator sits in
	// the second block.
	long := bytes.Repeat([]byte("x"), BlockSize+100)
	image := memoImage(long[:BlockSize], append(long[BlockSize:], codec.EndOfData))
	f := NewFile(bytes.NewReader(image), int64(len(image)))

	text, err := f.Resolve(1)
	require.NoError(t, err)
	assert.Equal(t, long, text)
}

func TestFile_ResolveWithoutTerminator(t *testing.T) {
	// A memo that never wrote its end marker runs to the end of the file.
	image := memoImage([]byte("unterminated"))
	for i := BlockSize + len("unterminated"); i < len(image); i++ {
		image[i] = ' '
	}
	f := NewFile(bytes.NewReader(image), int64(len(image)))

	text, err := f.Resolve(1)
	require.NoError(t, err)
	assert.Equal(t, BlockSize, len(text))
	assert.True(t, bytes.HasPrefix(text, []byte("unterminated")))
}

func TestFile_ResolveBadPointers(t *testing.T) {
	image := memoImage([]byte("only memo\x1A"))
	f := NewFile(bytes.NewReader(image), int64(len(image)))

	testCases := []struct {
		name string
		ptr  codec.MemoPointer
	}{
		{name: "block zero is the header", ptr: 0},
		{name: "negative block", ptr: -3},
		{name: "block past end of file", ptr: 99},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.Resolve(tc.ptr)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMemoNotFound)
		})
	}
}

func TestOpen(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "memo_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "table.dbt")
	image := memoImage([]byte("memo from disk\x1A"))
	err = os.WriteFile(path, image, 0600)
	require.NoError(t, err)

	f, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(image)), f.Size())

	text, err := f.Resolve(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("memo from disk"), text)

	err = f.Close()
	assert.NoError(t, err)

	// Closing twice is harmless.
	err = f.Close()
	assert.NoError(t, err)
}

func TestOpen_NonExistentFile(t *testing.T) {
	f, err := Open("/non/existent/table.dbt")
	assert.Error(t, err)
	assert.Nil(t, f)
}

func TestFile_IsMemoResolver(t *testing.T) {
	// The codec reaches memo text only through this interface.
	var _ codec.MemoResolver = NewFile(bytes.NewReader(nil), 0)
}
