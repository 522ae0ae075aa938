// Package transport issues the HTTP requests assembled by generated
// client methods. It owns auth, retries, timeouts, rate limits and
// circuit breaking; callers treat it as opaque.
package transport

import (
	"context"
	"net/url"
)

// Request is a fully resolved outbound request.
type Request struct {
	API   string // upstream api name, selects per-API policy
	Verb  string
	URL   string // base URL plus substituted path, no query
	Query url.Values
	Body  any // JSON-encoded when non-nil
}

// Response is a normalized upstream response.
type Response struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        any    `json:"body"`
}

// Transport executes resolved requests.
type Transport interface {
	Execute(ctx context.Context, req *Request) (*Response, error)
}
