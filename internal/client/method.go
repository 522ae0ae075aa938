package client

import (
	"context"
	"log"

	"apidisco/internal/discovery"
	"apidisco/internal/resolve"
	"apidisco/internal/transport"
)

// Method is a callable bound to one method schema. It supports three
// invocation shapes — synchronous, deferred channel, and callback — all
// funneling into the same resolution and dispatch path.
type Method struct {
	id       string
	schema   *discovery.Method
	doc      *discovery.Document
	api      string
	baseURL  string
	defaults map[string]any
	globals  map[string]*discovery.Param
	tr       transport.Transport
	logger   *log.Logger
}

// CallResult is the deferred outcome of an asynchronous invocation.
type CallResult struct {
	Response *transport.Response
	Err      error
}

// ID returns the method's schema id.
func (m *Method) ID() string { return m.id }

// Schema returns the shared, read-only method schema.
func (m *Method) Schema() *discovery.Method { return m.schema }

// RequestSchema returns the method's request body schema with its $ref
// expanded against the document's schema definitions, or nil when the
// method declares no request body.
func (m *Method) RequestSchema() map[string]any {
	if m.schema.Request == nil {
		return nil
	}
	return m.doc.ResolveRef(m.schema.Request)
}

// ResponseSchema returns the method's response schema with its $ref
// expanded, or nil when the method declares no response.
func (m *Method) ResponseSchema() map[string]any {
	if m.schema.Response == nil {
		return nil
	}
	return m.doc.ResolveRef(m.schema.Response)
}

// invoke is the single execution path behind every invocation shape.
// Parameter resolution runs first; a resolution failure never reaches
// the transport.
func (m *Method) invoke(ctx context.Context, params map[string]any) (*transport.Response, error) {
	resolved, err := resolve.Resolve(m.schema, m.globals, m.defaults, params)
	if err != nil {
		return nil, err
	}
	m.logger.Printf("[client] %s %s %s", m.id, resolved.Verb, resolved.Path)
	return m.tr.Execute(ctx, &transport.Request{
		API:   m.api,
		Verb:  resolved.Verb,
		URL:   m.baseURL + resolved.Path,
		Query: resolved.Query,
		Body:  bodyOrNil(resolved.Body),
	})
}

func bodyOrNil(body map[string]any) any {
	if body == nil {
		return nil
	}
	return body
}

// Do invokes the method synchronously. A nil params map means all
// parameter values come from the client defaults and schema defaults.
func (m *Method) Do(ctx context.Context, params map[string]any) (*transport.Response, error) {
	return m.invoke(ctx, params)
}

// DoAsync invokes the method and delivers the outcome on the returned
// channel. The channel is buffered; the result may be received at any
// later point without blocking the invocation.
func (m *Method) DoAsync(ctx context.Context, params map[string]any) <-chan CallResult {
	out := make(chan CallResult, 1)
	go func() {
		resp, err := m.invoke(ctx, params)
		out <- CallResult{Response: resp, Err: err}
		close(out)
	}()
	return out
}

// DoCallback invokes the method and delivers the outcome to cb from a
// separate goroutine. Passing nil params is the callback-only shape: the
// client defaults must satisfy every required parameter on their own.
func (m *Method) DoCallback(ctx context.Context, params map[string]any, cb func(*transport.Response, error)) {
	go func() {
		cb(m.invoke(ctx, params))
	}()
}
