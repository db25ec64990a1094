// Package message converts between user text and the payload stored in a
// message-carrier chunk. Payloads are either raw UTF-8 or a single zstd
// frame; the two are told apart by the zstd magic number, which can never
// start valid UTF-8.
package message

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/danmuck/pngctl/internal/pngfile"
	"github.com/klauspost/compress/zstd"
)

// DefaultMaxDecodedSize bounds a decompressed message (16MB).
const DefaultMaxDecodedSize = 16 << 20

var ErrDecompression = errors.New("message: decompression failed")

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Codec encodes and decodes message payloads.
type Codec struct {
	compress       bool
	level          zstd.EncoderLevel
	maxDecodedSize uint64
}

// Option configures a Codec.
type Option func(*Codec)

// WithCompression stores encoded messages as zstd frames.
func WithCompression(enabled bool) Option {
	return func(c *Codec) {
		c.compress = enabled
	}
}

// WithLevel sets the zstd encoder level (default: zstd.SpeedDefault).
func WithLevel(level zstd.EncoderLevel) Option {
	return func(c *Codec) {
		c.level = level
	}
}

// WithMaxDecodedSize caps the size of a decompressed message.
// Set to 0 to use DefaultMaxDecodedSize.
func WithMaxDecodedSize(limit uint64) Option {
	return func(c *Codec) {
		c.maxDecodedSize = limit
	}
}

func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		level:          zstd.SpeedDefault,
		maxDecodedSize: DefaultMaxDecodedSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxDecodedSize == 0 {
		c.maxDecodedSize = DefaultMaxDecodedSize
	}
	return c
}

// Encode returns the chunk payload for text.
func (c *Codec) Encode(text string) ([]byte, error) {
	if !c.compress {
		return []byte(text), nil
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(c.level), zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("message: create encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll([]byte(text), nil), nil
}

// Decode returns the text carried by chunk, decompressing when needed.
func (c *Codec) Decode(chunk pngfile.Chunk) (string, error) {
	data := chunk.Data()
	if !IsCompressed(data) {
		return chunk.DataText()
	}

	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(c.maxDecodedSize),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDecompression, chunk.Type(), err)
	}
	if uint64(len(out)) > c.maxDecodedSize {
		return "", fmt.Errorf("%w: %s: %d bytes exceeds limit %d", ErrDecompression, chunk.Type(), len(out), c.maxDecodedSize)
	}
	if !utf8.Valid(out) {
		return "", fmt.Errorf("%w: %s decompressed payload is not text", pngfile.ErrEncoding, chunk.Type())
	}
	return string(out), nil
}

// IsCompressed reports whether payload starts with a zstd frame.
func IsCompressed(payload []byte) bool {
	return bytes.HasPrefix(payload, zstdMagic)
}

// ParseLevel maps a level name to a zstd encoder level.
func ParseLevel(name string) (zstd.EncoderLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fastest":
		return zstd.SpeedFastest, nil
	case "", "default":
		return zstd.SpeedDefault, nil
	case "better":
		return zstd.SpeedBetterCompression, nil
	case "best":
		return zstd.SpeedBestCompression, nil
	default:
		return 0, fmt.Errorf("unknown compression level %q (supported: fastest, default, better, best)", name)
	}
}
