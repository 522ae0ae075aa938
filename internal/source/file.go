package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"apidisco/internal/discovery"
)

// File serves a single discovery document from one snapshot file. The
// requested api/version must match the document, otherwise the pair is
// unknown.
type File struct {
	path string

	// Strict additionally validates the raw document against the
	// bundled meta-schema before parsing.
	Strict bool
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) GetDocument(ctx context.Context, name, version string) (*discovery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &UnknownAPIError{Name: name, Version: version}
	}
	if err != nil {
		return nil, fmt.Errorf("source: read snapshot: %w", err)
	}
	if f.Strict {
		if err := discovery.ValidateRaw(raw); err != nil {
			return nil, err
		}
	}
	doc, err := discovery.Parse(raw)
	if err != nil {
		return nil, err
	}
	if doc.Name != name || doc.Version != version {
		return nil, &UnknownAPIError{Name: name, Version: version}
	}
	return doc, nil
}
