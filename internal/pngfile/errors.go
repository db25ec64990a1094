package pngfile

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidChunkType   = errors.New("png: invalid chunk type")
	ErrTruncated          = errors.New("png: truncated data")
	ErrCRCMismatch        = errors.New("png: crc mismatch")
	ErrTrailingData       = errors.New("png: trailing data after chunk")
	ErrEncoding           = errors.New("png: invalid utf-8")
	ErrTooSmall           = errors.New("png: input too small")
	ErrSignatureMismatch  = errors.New("png: signature mismatch")
	ErrTerminatorMissing  = errors.New("png: terminator chunk missing or not last")
	ErrTerminatorRemoval  = errors.New("png: terminator chunk cannot be removed")
	ErrDuplicateChunkType = errors.New("png: duplicate chunk type")
	ErrNotFound           = errors.New("png: chunk not found")
	ErrPayloadTooLarge    = errors.New("png: payload too large")
)

// ChunkError reports a chunk that failed to decode while parsing a container.
type ChunkError struct {
	Index  int
	Offset int
	// Type is empty when the failure happened before the type code was read.
	Type string
	Err  error
}

func (e *ChunkError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("png: chunk %d at offset %d: %v", e.Index, e.Offset, e.Err)
	}
	return fmt.Sprintf("png: chunk %d (%s) at offset %d: %v", e.Index, e.Type, e.Offset, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}
