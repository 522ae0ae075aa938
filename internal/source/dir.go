package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"apidisco/internal/discovery"
)

// Dir serves discovery documents from bundled snapshots on disk, one
// file per api/version named <name>-<version>.json.
type Dir struct {
	dir string
}

func NewDir(dir string) *Dir {
	return &Dir{dir: dir}
}

func (d *Dir) GetDocument(ctx context.Context, name, version string) (*discovery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(d.dir, fmt.Sprintf("%s-%s.json", name, version))
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &UnknownAPIError{Name: name, Version: version}
	}
	if err != nil {
		return nil, fmt.Errorf("source: read snapshot: %w", err)
	}
	return discovery.Parse(raw)
}
