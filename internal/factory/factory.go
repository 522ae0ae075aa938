// Package factory is the top-level entry point: it obtains the discovery
// document for an api/version pair and builds the generated client.
package factory

import (
	"context"
	"log"

	"apidisco/internal/client"
	"apidisco/internal/source"
	"apidisco/internal/transport"
)

type Factory struct {
	source source.Source
	tr     transport.Transport
	logger *log.Logger
}

func New(src source.Source, tr transport.Transport, logger *log.Logger) *Factory {
	return &Factory{source: src, tr: tr, logger: logger}
}

// Option configures one Create call.
type Option func(*createOptions)

type createOptions struct {
	params map[string]any
}

// WithParams sets the client-level default parameters. Every method of
// the created client consumes them, and call-site values override them
// per request.
func WithParams(params map[string]any) Option {
	return func(o *createOptions) {
		o.params = params
	}
}

// Create obtains the discovery document for name/version and builds a
// client from it. An unknown pair yields *source.UnknownAPIError; a
// malformed document yields *discovery.SchemaError. No partially-built
// client is ever returned.
func (f *Factory) Create(ctx context.Context, name, version string, opts ...Option) (*client.Client, error) {
	var o createOptions
	for _, opt := range opts {
		opt(&o)
	}

	doc, err := f.source.GetDocument(ctx, name, version)
	if err != nil {
		return nil, err
	}
	f.logger.Printf("[factory] building client for %s/%s", name, version)
	return client.Build(doc, f.tr, f.logger, o.params)
}
