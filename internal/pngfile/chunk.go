package pngfile

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"
	"unicode/utf8"
)

const (
	lengthLen = 4
	typeLen   = 4
	crcLen    = 4

	// ChunkHeaderLen is the length field plus the type code.
	ChunkHeaderLen = lengthLen + typeLen
	// MinChunkLen is the encoded size of a chunk with an empty payload.
	MinChunkLen = ChunkHeaderLen + crcLen
	// MaxChunkDataLen is the largest payload the length field can describe.
	MaxChunkDataLen = math.MaxUint32
)

// Chunk is one length-prefixed, CRC-checked record:
//
//	length:u32 | type:4 | data:length | crc:u32
//
// All integers are big-endian. The CRC covers type and data, never the
// length. Chunks are immutable; Data returns a copy.
type Chunk struct {
	typ  ChunkType
	data []byte
	crc  uint32
}

// NewChunk builds a chunk and computes its CRC. data is copied. Payloads
// longer than MaxChunkDataLen cannot be encoded and cause a panic; callers
// holding untrusted sizes check first.
func NewChunk(typ ChunkType, data []byte) Chunk {
	if uint64(len(data)) > MaxChunkDataLen {
		panic(fmt.Sprintf("pngfile.NewChunk: payload length %d exceeds %d", len(data), uint64(MaxChunkDataLen)))
	}
	owned := make([]byte, len(data))
	copy(owned, data)
	return Chunk{
		typ:  typ,
		data: owned,
		crc:  checksum(typ, owned),
	}
}

// DecodeChunk decodes the chunk at the front of b and returns it together
// with the number of bytes it occupied. Nothing past that point is read.
func DecodeChunk(b []byte) (Chunk, int, error) {
	if len(b) < lengthLen {
		return Chunk{}, 0, fmt.Errorf("%w: length field needs %d bytes, have %d", ErrTruncated, lengthLen, len(b))
	}
	length := binary.BigEndian.Uint32(b[0:lengthLen])

	if len(b) < ChunkHeaderLen {
		return Chunk{}, 0, fmt.Errorf("%w: type field needs %d bytes, have %d", ErrTruncated, typeLen, len(b)-lengthLen)
	}
	var code [4]byte
	copy(code[:], b[lengthLen:ChunkHeaderLen])
	typ, err := ChunkTypeFromBytes(code)
	if err != nil {
		return Chunk{}, 0, err
	}

	rest := uint64(len(b) - ChunkHeaderLen)
	if rest < uint64(length) {
		return Chunk{}, 0, fmt.Errorf("%w: %s declares %d data bytes, have %d", ErrTruncated, typ, length, rest)
	}
	if rest-uint64(length) < crcLen {
		return Chunk{}, 0, fmt.Errorf("%w: %s crc needs %d bytes, have %d", ErrTruncated, typ, crcLen, rest-uint64(length))
	}

	dataEnd := ChunkHeaderLen + int(length)
	stored := binary.BigEndian.Uint32(b[dataEnd : dataEnd+crcLen])
	if computed := crc32.ChecksumIEEE(b[lengthLen:dataEnd]); computed != stored {
		return Chunk{}, 0, fmt.Errorf("%w: %s stored 0x%08x, computed 0x%08x", ErrCRCMismatch, typ, stored, computed)
	}

	data := make([]byte, length)
	copy(data, b[ChunkHeaderLen:dataEnd])
	return Chunk{typ: typ, data: data, crc: stored}, dataEnd + crcLen, nil
}

// ParseChunk decodes b, which must hold exactly one chunk.
func ParseChunk(b []byte) (Chunk, error) {
	c, n, err := DecodeChunk(b)
	if err != nil {
		return Chunk{}, err
	}
	if n != len(b) {
		return Chunk{}, fmt.Errorf("%w: %d bytes after %s", ErrTrailingData, len(b)-n, c.typ)
	}
	return c, nil
}

func (c Chunk) Length() uint32 {
	return uint32(len(c.data))
}

func (c Chunk) Type() ChunkType {
	return c.typ
}

func (c Chunk) Data() []byte {
	out := make([]byte, len(c.data))
	copy(out, c.data)
	return out
}

func (c Chunk) CRC() uint32 {
	return c.crc
}

// EncodedLen is the size of the chunk on the wire.
func (c Chunk) EncodedLen() int {
	return MinChunkLen + len(c.data)
}

// DataText returns the payload as text. Invalid UTF-8 fails with ErrEncoding.
func (c Chunk) DataText() (string, error) {
	if !utf8.Valid(c.data) {
		return "", fmt.Errorf("%w: %s payload is not text", ErrEncoding, c.typ)
	}
	return string(c.data), nil
}

// Bytes encodes the chunk in wire layout.
func (c Chunk) Bytes() []byte {
	return c.appendTo(make([]byte, 0, c.EncodedLen()))
}

func (c Chunk) appendTo(buf []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, c.Length())
	buf = append(buf, c.typ.code[:]...)
	buf = append(buf, c.data...)
	return binary.BigEndian.AppendUint32(buf, c.crc)
}

func (c Chunk) String() string {
	return fmt.Sprintf("%s (Length: %d, CRC: 0x%08x)", c.typ, c.Length(), c.crc)
}

func checksum(typ ChunkType, data []byte) uint32 {
	h := crc32.NewIEEE()
	_, _ = h.Write(typ.code[:])
	_, _ = h.Write(data)
	return h.Sum32()
}
