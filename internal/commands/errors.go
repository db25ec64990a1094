package commands

import "errors"

var (
	ErrUnmodifiableChunkType = errors.New("commands: chunk type cannot carry messages")
	ErrFileTooLarge          = errors.New("commands: input file too large")
	ErrUnknownFormat         = errors.New("commands: unknown output format")
)
