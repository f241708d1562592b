// Package provider supplies subtitle data to a track controller, either as
// entries that are already structured or as a raw payload that still needs
// a format parser.
package provider

import (
	"context"
	"fmt"
	"os"

	"subweave/internal/subtitle"
)

// Result is the outcome of a fetch. Exactly two variants exist: Parsed and
// Raw. The interface is sealed so call sites can type-switch exhaustively.
type Result interface {
	result()
}

// Parsed carries entries that need no further parsing.
type Parsed struct {
	Entries []subtitle.Entry
}

// Raw carries an unparsed payload plus the format hint needed to pick a
// parser for it.
type Raw struct {
	Format  subtitle.Format
	Payload []byte
}

func (Parsed) result() {}
func (Raw) result()    {}

// Provider yields subtitle data for exactly one track.
type Provider interface {
	Fetch(ctx context.Context) (Result, error)
}

// Static serves a pre-built entry sequence. The entries are handed over
// as-is; anything order-sensitive downstream trusts the caller's ordering.
type Static struct {
	entries []subtitle.Entry
}

func NewStatic(entries []subtitle.Entry) *Static {
	return &Static{entries: entries}
}

func (p *Static) Fetch(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Parsed{Entries: p.entries}, nil
}

// File reads a subtitle file from disk and serves its payload raw, with
// the format derived from the extension. Non-UTF-8 payloads are decoded to
// UTF-8 before being handed on.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (p *File) Fetch(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, err := subtitle.FormatFromPath(p.path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	data, err = toUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode subtitle file: %w", err)
	}

	return Raw{Format: format, Payload: data}, nil
}
