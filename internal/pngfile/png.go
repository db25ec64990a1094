package pngfile

import (
	"bytes"
	"fmt"
)

// Signature is the fixed 8-byte prefix of every PNG stream.
var Signature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// MinLen is the smallest stream Parse will look at: a signature followed by
// one empty chunk.
const MinLen = len(Signature) + MinChunkLen

// Png is a parsed container: the signature followed by an ordered chunk
// list whose last element is the IEND terminator.
//
// A Png is not safe for concurrent mutation. Mutating methods either succeed
// or leave the chunk list untouched.
type Png struct {
	chunks []Chunk
}

// Parse validates input eagerly and returns the container. Any failure
// yields no container.
func Parse(input []byte) (*Png, error) {
	if len(input) < MinLen {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrTooSmall, len(input), MinLen)
	}
	if !bytes.Equal(input[:len(Signature)], Signature[:]) {
		return nil, fmt.Errorf("%w: got % x", ErrSignatureMismatch, input[:len(Signature)])
	}

	chunks := make([]Chunk, 0, 8)
	off := len(Signature)
	for off < len(input) {
		c, n, err := DecodeChunk(input[off:])
		if err != nil {
			return nil, &ChunkError{
				Index:  len(chunks),
				Offset: off,
				Type:   peekType(input[off:]),
				Err:    err,
			}
		}
		chunks = append(chunks, c)
		off += n
	}
	return FromChunks(chunks)
}

// FromChunks builds a container from already decoded chunks. The list must
// contain exactly one IEND chunk, in last position. chunks is copied.
func FromChunks(chunks []Chunk) (*Png, error) {
	if err := checkTerminator(chunks); err != nil {
		return nil, err
	}
	owned := make([]Chunk, len(chunks))
	copy(owned, chunks)
	return &Png{chunks: owned}, nil
}

// Chunks returns the chunk list in file order. The slice is a copy.
func (p *Png) Chunks() []Chunk {
	out := make([]Chunk, len(p.chunks))
	copy(out, p.chunks)
	return out
}

// Len reports the number of chunks, terminator included.
func (p *Png) Len() int {
	return len(p.chunks)
}

// ChunkByType returns the first chunk of type t.
func (p *Png) ChunkByType(t ChunkType) (Chunk, bool) {
	i := p.index(t)
	if i < 0 {
		return Chunk{}, false
	}
	return p.chunks[i], true
}

// Append builds a chunk of type t around data and inserts it before IEND.
func (p *Png) Append(t ChunkType, data []byte) error {
	if uint64(len(data)) > MaxChunkDataLen {
		return fmt.Errorf("%w: %d bytes for %s", ErrPayloadTooLarge, len(data), t)
	}
	return p.AppendChunk(NewChunk(t, data))
}

// AppendChunk inserts c immediately before the IEND chunk. At most one chunk
// of a given type may be added this way; a second one fails with
// ErrDuplicateChunkType.
func (p *Png) AppendChunk(c Chunk) error {
	if p.index(c.typ) >= 0 {
		return fmt.Errorf("%w: %s already present", ErrDuplicateChunkType, c.typ)
	}
	last := len(p.chunks) - 1
	next := make([]Chunk, 0, len(p.chunks)+1)
	next = append(next, p.chunks[:last]...)
	next = append(next, c, p.chunks[last])
	p.chunks = next
	return nil
}

// RemoveChunk removes and returns the first chunk of type t. The order of
// the remaining chunks is preserved. The terminator cannot be removed.
func (p *Png) RemoveChunk(t ChunkType) (Chunk, error) {
	if t == TypeIEND {
		return Chunk{}, ErrTerminatorRemoval
	}
	i := p.index(t)
	if i < 0 {
		return Chunk{}, fmt.Errorf("%w: %s", ErrNotFound, t)
	}
	removed := p.chunks[i]
	next := make([]Chunk, 0, len(p.chunks)-1)
	next = append(next, p.chunks[:i]...)
	next = append(next, p.chunks[i+1:]...)
	p.chunks = next
	return removed, nil
}

// EncodedLen is the size of the serialized container.
func (p *Png) EncodedLen() int {
	n := len(Signature)
	for _, c := range p.chunks {
		n += c.EncodedLen()
	}
	return n
}

// Bytes serializes the signature followed by every chunk in order.
func (p *Png) Bytes() []byte {
	buf := make([]byte, 0, p.EncodedLen())
	buf = append(buf, Signature[:]...)
	for _, c := range p.chunks {
		buf = c.appendTo(buf)
	}
	return buf
}

func (p *Png) index(t ChunkType) int {
	for i, c := range p.chunks {
		if c.typ == t {
			return i
		}
	}
	return -1
}

func checkTerminator(chunks []Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("%w: no chunks", ErrTerminatorMissing)
	}
	for i, c := range chunks {
		if c.typ != TypeIEND {
			continue
		}
		if i != len(chunks)-1 {
			return fmt.Errorf("%w: %s at index %d of %d", ErrTerminatorMissing, TypeIEND, i, len(chunks))
		}
		return nil
	}
	return fmt.Errorf("%w: last chunk is %s", ErrTerminatorMissing, chunks[len(chunks)-1].typ)
}

// peekType returns the type code at the front of a chunk when it is present
// and printable, for error context.
func peekType(b []byte) string {
	if len(b) < ChunkHeaderLen {
		return ""
	}
	var code [4]byte
	copy(code[:], b[lengthLen:ChunkHeaderLen])
	t, err := ChunkTypeFromBytes(code)
	if err != nil {
		return ""
	}
	return t.String()
}
