package pngfile

import (
	"fmt"
	"unicode/utf8"
)

// propertyBit is bit 5 of each type byte; it is the ASCII case bit.
const propertyBit byte = 0x20

var (
	TypeIHDR = ChunkType{code: [4]byte{'I', 'H', 'D', 'R'}}
	TypeIEND = ChunkType{code: [4]byte{'I', 'E', 'N', 'D'}}
)

// ChunkType is a 4-byte chunk type code. Property bits are read from the case
// of each letter:
//
//	byte 0: uppercase = critical,        lowercase = ancillary
//	byte 1: uppercase = public,          lowercase = private
//	byte 2: uppercase = reserved (valid), lowercase = invalid
//	byte 3: uppercase = unsafe to copy,  lowercase = safe to copy
//
// Values built by ChunkTypeFromBytes or ParseChunkType are always ASCII
// alphabetic. The zero value is not a valid type.
type ChunkType struct {
	code [4]byte
}

// ChunkTypeFromBytes validates b and returns it as a ChunkType.
func ChunkTypeFromBytes(b [4]byte) (ChunkType, error) {
	for i, c := range b {
		if !isASCIIAlpha(c) {
			return ChunkType{}, fmt.Errorf("%w: byte %d is 0x%02x, want ASCII letter", ErrInvalidChunkType, i, c)
		}
	}
	return ChunkType{code: b}, nil
}

// ParseChunkType parses a 4-character alphabetic string such as "ruSt".
func ParseChunkType(s string) (ChunkType, error) {
	if len(s) != 4 {
		return ChunkType{}, fmt.Errorf("%w: %q has length %d, want 4", ErrInvalidChunkType, s, len(s))
	}
	var b [4]byte
	copy(b[:], s)
	ct, err := ChunkTypeFromBytes(b)
	if err != nil {
		return ChunkType{}, fmt.Errorf("%w (%q)", err, s)
	}
	return ct, nil
}

// MustParseChunkType is like ParseChunkType but panics on error.
func MustParseChunkType(s string) ChunkType {
	ct, err := ParseChunkType(s)
	if err != nil {
		panic(err)
	}
	return ct
}

func (t ChunkType) Bytes() [4]byte {
	return t.code
}

func (t ChunkType) IsCritical() bool {
	return t.code[0]&propertyBit == 0
}

func (t ChunkType) IsPublic() bool {
	return t.code[1]&propertyBit == 0
}

func (t ChunkType) IsReservedBitValid() bool {
	return t.code[2]&propertyBit == 0
}

func (t ChunkType) IsSafeToCopy() bool {
	return t.code[3]&propertyBit != 0
}

// IsValid reports whether every byte is an ASCII letter and the reserved bit
// is clear.
func (t ChunkType) IsValid() bool {
	for _, c := range t.code {
		if !isASCIIAlpha(c) {
			return false
		}
	}
	return t.IsReservedBitValid()
}

// IsModifiable reports whether chunks of this type may carry user data:
// ancillary, private, reserved bit clear, and safe to copy. Critical or public
// types (IHDR, PLTE, IEND, tEXt, ...) are never message carriers.
func (t ChunkType) IsModifiable() bool {
	return t.IsValid() &&
		!t.IsCritical() &&
		!t.IsPublic() &&
		t.IsReservedBitValid() &&
		t.IsSafeToCopy()
}

// Text renders the code as a string, failing with ErrEncoding when the bytes
// are not valid UTF-8.
func (t ChunkType) Text() (string, error) {
	if !utf8.Valid(t.code[:]) {
		return "", fmt.Errorf("%w: chunk type % x", ErrEncoding, t.code[:])
	}
	return string(t.code[:]), nil
}

func (t ChunkType) String() string {
	s, err := t.Text()
	if err != nil {
		return fmt.Sprintf("%x", t.code[:])
	}
	return s
}

func isASCIIAlpha(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
