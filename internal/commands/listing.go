package commands

import (
	_ "crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/pngctl/internal/message"
	"github.com/danmuck/pngctl/internal/pngfile"
	"github.com/opencontainers/go-digest"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w %q (supported: text, json, yaml)", ErrUnknownFormat, raw)
	}
}

// Entry describes one chunk of a listing.
type Entry struct {
	Index      int    `json:"index" yaml:"index"`
	Offset     int    `json:"offset" yaml:"offset"`
	Type       string `json:"type" yaml:"type"`
	Length     uint32 `json:"length" yaml:"length"`
	CRC        string `json:"crc" yaml:"crc"`
	Digest     string `json:"digest" yaml:"digest"`
	Critical   bool   `json:"critical" yaml:"critical"`
	Public     bool   `json:"public" yaml:"public"`
	SafeToCopy bool   `json:"safe_to_copy" yaml:"safe_to_copy"`
	Modifiable bool   `json:"modifiable" yaml:"modifiable"`
	Compressed bool   `json:"compressed" yaml:"compressed"`
}

// Listing is the result of a print command.
type Listing struct {
	File   string  `json:"file" yaml:"file"`
	All    bool    `json:"all" yaml:"all"`
	Chunks []Entry `json:"chunks" yaml:"chunks"`
}

// NewListing describes the chunks of png. Unless all is set only message
// carriers are included.
func NewListing(file string, png *pngfile.Png, all bool) Listing {
	listing := Listing{File: file, All: all, Chunks: []Entry{}}
	offset := len(pngfile.Signature)
	for i, c := range png.Chunks() {
		ct := c.Type()
		if all || ct.IsModifiable() {
			data := c.Data()
			listing.Chunks = append(listing.Chunks, Entry{
				Index:      i,
				Offset:     offset,
				Type:       ct.String(),
				Length:     c.Length(),
				CRC:        fmt.Sprintf("0x%08x", c.CRC()),
				Digest:     digest.FromBytes(data).String(),
				Critical:   ct.IsCritical(),
				Public:     ct.IsPublic(),
				SafeToCopy: ct.IsSafeToCopy(),
				Modifiable: ct.IsModifiable(),
				Compressed: ct.IsModifiable() && message.IsCompressed(data),
			})
		}
		offset += c.EncodedLen()
	}
	return listing
}

// Render writes the listing to w in format f.
func (l Listing) Render(w io.Writer, f Format) error {
	switch f {
	case FormatText, "":
		return l.renderText(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}

func (l Listing) renderText(w io.Writer) error {
	if len(l.Chunks) == 0 {
		if l.All {
			_, err := fmt.Fprintln(w, "No chunks found")
			return err
		}
		_, err := fmt.Fprintln(w, "No chunks found which could possibly contain messages")
		return err
	}

	if _, err := fmt.Fprintf(w, "PNG chunks found in file '%s':\n\n", l.File); err != nil {
		return err
	}
	for _, e := range l.Chunks {
		line := fmt.Sprintf("%s\tlength=%d\tcrc=%s\t%s", e.Type, e.Length, e.CRC, e.Digest)
		if e.Compressed {
			line += "\tzstd"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
