package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"LocalBoard/internal/stroke"
)

// Source is a board that can be exported. *board.Controller implements it.
type Source interface {
	EncodePNG(w io.Writer) error
	Size() (width, height float64)
	Snapshot() []stroke.Stroke
}

// Write encodes src in the format named by ext: png, pdf, or json for the
// raw stroke history. A leading dot is ignored.
func Write(w io.Writer, src Source, ext string) error {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png", "":
		return src.EncodePNG(w)
	case "pdf":
		width, height := src.Size()
		return PDF(w, src.Snapshot(), width, height)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(src.Snapshot())
	default:
		return fmt.Errorf("unsupported export format %q", ext)
	}
}

// ReadHistory parses a stroke history written by Write, dropping strokes
// that cannot be drawn.
func ReadHistory(r io.Reader) ([]stroke.Stroke, error) {
	var loaded []stroke.Stroke
	if err := json.NewDecoder(r).Decode(&loaded); err != nil {
		return nil, fmt.Errorf("invalid drawing file: %w", err)
	}
	valid := loaded[:0]
	for _, s := range loaded {
		if s.Valid() {
			valid = append(valid, s)
		}
	}
	return valid, nil
}
