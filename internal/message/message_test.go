package message

import (
	"bytes"
	"strings"
	"testing"

	"github.com/danmuck/pngctl/internal/pngfile"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var carrier = pngfile.MustParseChunkType("ruSt")

func TestPlainRoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewCodec()
	payload, err := codec.Encode("hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), payload)
	assert.False(t, IsCompressed(payload))

	text, err := codec.Decode(pngfile.NewChunk(carrier, payload))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestCompressedRoundTrip(t *testing.T) {
	t.Parallel()

	original := strings.Repeat("a secret message that compresses well. ", 200)
	for _, name := range []string{"fastest", "default", "better", "best"} {
		level, err := ParseLevel(name)
		require.NoError(t, err)

		codec := NewCodec(WithCompression(true), WithLevel(level))
		payload, err := codec.Encode(original)
		require.NoError(t, err)
		assert.True(t, IsCompressed(payload), name)
		assert.Less(t, len(payload), len(original), name)

		// A plain codec still reads compressed payloads.
		text, err := NewCodec().Decode(pngfile.NewChunk(carrier, payload))
		require.NoError(t, err)
		assert.Equal(t, original, text, name)
	}
}

func TestDecodeCorruptFrame(t *testing.T) {
	t.Parallel()

	payload := append(bytes.Clone(zstdMagic), 0xff, 0xff, 0xff, 0xff)
	_, err := NewCodec().Decode(pngfile.NewChunk(carrier, payload))
	require.ErrorIs(t, err, ErrDecompression)
}

func TestDecodeRespectsSizeLimit(t *testing.T) {
	t.Parallel()

	payload, err := NewCodec(WithCompression(true)).Encode(strings.Repeat("x", 1<<20))
	require.NoError(t, err)

	_, err = NewCodec(WithMaxDecodedSize(1024)).Decode(pngfile.NewChunk(carrier, payload))
	require.ErrorIs(t, err, ErrDecompression)
}

func TestDecodeRejectsBinary(t *testing.T) {
	t.Parallel()

	_, err := NewCodec().Decode(pngfile.NewChunk(carrier, []byte{0xff, 0xfe}))
	require.ErrorIs(t, err, pngfile.ErrEncoding)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll([]byte{0xff, 0xfe, 0xfd}, nil)
	require.NoError(t, enc.Close())

	_, err = NewCodec().Decode(pngfile.NewChunk(carrier, compressed))
	require.ErrorIs(t, err, pngfile.ErrEncoding)
}

func TestParseLevelRejectsUnknown(t *testing.T) {
	t.Parallel()

	_, err := ParseLevel("ultra")
	require.Error(t, err)
}
