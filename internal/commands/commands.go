// Package commands implements the pngctl operations on top of pngfile:
// encode, decode and remove a message chunk, and list chunks. It owns file
// I/O and the message-carrier policy gate.
package commands

import (
	"fmt"

	"github.com/danmuck/pngctl/internal/message"
	"github.com/danmuck/pngctl/internal/pngfile"
	"github.com/rs/zerolog/log"
)

// DefaultMaxFileSize is the default input size limit (256MB).
const DefaultMaxFileSize = 256 << 20

type EncodeRequest struct {
	InFile string
	// OutFile defaults to InFile, updating it in place.
	OutFile   string
	ChunkType string
	Message   string
}

type DecodeRequest struct {
	InFile    string
	ChunkType string
}

type RemoveRequest struct {
	InFile string
	// OutFile defaults to InFile, updating it in place.
	OutFile   string
	ChunkType string
}

type PrintRequest struct {
	InFile string
	// All lists every chunk instead of message carriers only.
	All bool
}

// Runner executes commands with shared limits and payload codec.
type Runner struct {
	maxFileSize int64
	codec       *message.Codec
}

// Option configures a Runner.
type Option func(*Runner)

// WithMaxFileSize sets the input file size limit. Set to 0 to disable it.
func WithMaxFileSize(limit int64) Option {
	return func(r *Runner) {
		if limit < 0 {
			limit = 0
		}
		r.maxFileSize = limit
	}
}

// WithCodec sets the message payload codec.
func WithCodec(codec *message.Codec) Option {
	return func(r *Runner) {
		r.codec = codec
	}
}

func New(opts ...Option) *Runner {
	r := &Runner{maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(r)
	}
	if r.codec == nil {
		r.codec = message.NewCodec()
	}
	return r
}

// Encode stores req.Message in a new chunk of req.ChunkType.
func (r *Runner) Encode(req EncodeRequest) error {
	ct, err := carrierType(req.ChunkType)
	if err != nil {
		return err
	}
	png, err := r.load(req.InFile)
	if err != nil {
		return err
	}
	payload, err := r.codec.Encode(req.Message)
	if err != nil {
		return err
	}
	if err := png.Append(ct, payload); err != nil {
		return fmt.Errorf("encode %s into %s: %w", ct, req.InFile, err)
	}
	log.Debug().Str("chunk_type", ct.String()).Int("bytes", len(payload)).
		Bool("compressed", message.IsCompressed(payload)).Msg("commands.encode appended chunk")

	return r.store(outPath(req.InFile, req.OutFile), png)
}

// Decode returns the message stored under req.ChunkType.
func (r *Runner) Decode(req DecodeRequest) (string, error) {
	ct, err := carrierType(req.ChunkType)
	if err != nil {
		return "", err
	}
	png, err := r.load(req.InFile)
	if err != nil {
		return "", err
	}
	chunk, ok := png.ChunkByType(ct)
	if !ok {
		return "", fmt.Errorf("decode %s from %s: %w", ct, req.InFile, pngfile.ErrNotFound)
	}
	log.Debug().Str("chunk_type", ct.String()).Uint32("bytes", chunk.Length()).Msg("commands.decode found chunk")
	return r.codec.Decode(chunk)
}

// Remove deletes the chunk stored under req.ChunkType and returns it.
func (r *Runner) Remove(req RemoveRequest) (pngfile.Chunk, error) {
	ct, err := carrierType(req.ChunkType)
	if err != nil {
		return pngfile.Chunk{}, err
	}
	png, err := r.load(req.InFile)
	if err != nil {
		return pngfile.Chunk{}, err
	}
	removed, err := png.RemoveChunk(ct)
	if err != nil {
		return pngfile.Chunk{}, fmt.Errorf("remove %s from %s: %w", ct, req.InFile, err)
	}
	log.Debug().Str("chunk_type", ct.String()).Uint32("bytes", removed.Length()).Msg("commands.remove dropped chunk")

	if err := r.store(outPath(req.InFile, req.OutFile), png); err != nil {
		return pngfile.Chunk{}, err
	}
	return removed, nil
}

// Print lists the chunks of req.InFile.
func (r *Runner) Print(req PrintRequest) (Listing, error) {
	png, err := r.load(req.InFile)
	if err != nil {
		return Listing{}, err
	}
	return NewListing(req.InFile, png, req.All), nil
}

func (r *Runner) load(path string) (*pngfile.Png, error) {
	data, err := readFile(path, r.maxFileSize)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	log.Trace().Str("path", path).Int("bytes", len(data)).Msg("commands.load read file")

	png, err := pngfile.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	log.Trace().Str("path", path).Int("chunks", png.Len()).Msg("commands.load parsed")
	return png, nil
}

func (r *Runner) store(path string, png *pngfile.Png) error {
	data := png.Bytes()
	if err := writeFile(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("commands.store wrote file")
	return nil
}

// carrierType parses raw and applies the message-carrier policy: only
// ancillary, private, safe-to-copy types with a clear reserved bit qualify.
func carrierType(raw string) (pngfile.ChunkType, error) {
	ct, err := pngfile.ParseChunkType(raw)
	if err != nil {
		return pngfile.ChunkType{}, err
	}
	if !ct.IsModifiable() {
		return pngfile.ChunkType{}, fmt.Errorf("%w: %s", ErrUnmodifiableChunkType, ct)
	}
	return ct, nil
}

func outPath(in, out string) string {
	if out == "" {
		return in
	}
	return out
}
