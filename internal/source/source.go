// Package source supplies discovery documents, either from a bundled
// snapshot directory, a remote discovery service, or a cached wrapper
// around another source. All sources yield documents with the identical
// shape, so clients built from any of them behave the same.
package source

import (
	"context"
	"fmt"

	"apidisco/internal/discovery"
)

// Source obtains the discovery document for one api/version pair.
type Source interface {
	GetDocument(ctx context.Context, name, version string) (*discovery.Document, error)
}

// UnknownAPIError reports that no discovery document exists for the
// requested api/version pair.
type UnknownAPIError struct {
	Name    string
	Version string
}

func (e *UnknownAPIError) Error() string {
	return fmt.Sprintf("source: unknown api %s/%s", e.Name, e.Version)
}
