// Package client turns a parsed discovery document into a live object
// graph: nested resource containers holding callable method descriptors.
// The graph is built once, is immutable afterwards, and shares the
// document's method schemas read-only.
package client

import (
	"log"
	"sort"
	"strings"

	"apidisco/internal/discovery"
	"apidisco/internal/transport"
)

// Client is the generated root of one API's callable surface.
type Client struct {
	api      string
	version  string
	baseURL  string
	doc      *discovery.Document
	defaults map[string]any
	globals  map[string]*discovery.Param
	root     *Resource
}

// Resource is one container node in the generated tree. It may hold
// nested resources and methods; an empty resource is still a valid node.
type Resource struct {
	name      string
	resources map[string]*Resource
	methods   map[string]*Method
}

// Build constructs the client graph for doc. defaults become the
// client-level default parameters shared by every method; the map is
// copied once here and never written again. A malformed method aborts
// the build with *discovery.SchemaError; no partial client is returned.
func Build(doc *discovery.Document, tr transport.Transport, logger *log.Logger, defaults map[string]any) (*Client, error) {
	baseURL, err := doc.BaseURL()
	if err != nil {
		return nil, err
	}

	owned := make(map[string]any, len(defaults))
	for name, v := range defaults {
		owned[name] = v
	}

	c := &Client{
		api:      doc.Name,
		version:  doc.Version,
		baseURL:  baseURL,
		doc:      doc,
		defaults: owned,
		globals:  doc.Parameters,
	}
	root, err := c.buildNode("", doc.Resources, doc.Methods, tr, logger)
	if err != nil {
		return nil, err
	}
	c.root = root
	return c, nil
}

func (c *Client) buildNode(name string, resources map[string]*discovery.Resource, methods map[string]*discovery.Method, tr transport.Transport, logger *log.Logger) (*Resource, error) {
	node := &Resource{
		name:      name,
		resources: map[string]*Resource{},
		methods:   map[string]*Method{},
	}
	for childName, res := range resources {
		var childResources map[string]*discovery.Resource
		var childMethods map[string]*discovery.Method
		if res != nil {
			childResources = res.Resources
			childMethods = res.Methods
		}
		child, err := c.buildNode(childName, childResources, childMethods, tr, logger)
		if err != nil {
			return nil, err
		}
		node.resources[childName] = child
	}
	for methodName, m := range methods {
		desc, err := c.buildMethod(methodName, m, tr, logger)
		if err != nil {
			return nil, err
		}
		node.methods[methodName] = desc
	}
	return node, nil
}

func (c *Client) buildMethod(name string, m *discovery.Method, tr transport.Transport, logger *log.Logger) (*Method, error) {
	if m == nil {
		return nil, &discovery.SchemaError{MethodID: name, Reason: "empty method"}
	}
	id := m.ID
	if id == "" {
		id = name
	}
	if m.HTTPMethod == "" {
		return nil, &discovery.SchemaError{MethodID: id, Reason: "missing httpMethod"}
	}
	if m.Path == "" {
		return nil, &discovery.SchemaError{MethodID: id, Reason: "missing path"}
	}
	return &Method{
		id:       id,
		schema:   m,
		doc:      c.doc,
		api:      c.api,
		baseURL:  c.baseURL,
		defaults: c.defaults,
		globals:  c.globals,
		tr:       tr,
		logger:   logger,
	}, nil
}

// API returns the api name the client was generated for.
func (c *Client) API() string { return c.api }

// Version returns the api version the client was generated for.
func (c *Client) Version() string { return c.version }

// Root returns the root resource node.
func (c *Client) Root() *Resource { return c.root }

// Resource returns the named top-level resource, or nil.
func (c *Client) Resource(name string) *Resource { return c.root.Resource(name) }

// Method returns the named root-level method, or nil.
func (c *Client) Method(name string) *Method { return c.root.Method(name) }

// Lookup resolves a dotted path like "userinfo.v2.me.get" to a method
// descriptor, descending resources segment by segment.
func (c *Client) Lookup(path string) (*Method, bool) {
	segments := strings.Split(path, ".")
	node := c.root
	for i, segment := range segments {
		if i == len(segments)-1 {
			if m := node.Method(segment); m != nil {
				return m, true
			}
			return nil, false
		}
		node = node.Resource(segment)
		if node == nil {
			return nil, false
		}
	}
	return nil, false
}

// MethodPaths lists the dotted path of every callable method, sorted.
func (c *Client) MethodPaths() []string {
	var paths []string
	c.root.walk("", &paths)
	sort.Strings(paths)
	return paths
}

// Resource returns the named child resource, or nil.
func (r *Resource) Resource(name string) *Resource {
	if r == nil {
		return nil
	}
	return r.resources[name]
}

// Method returns the named method descriptor, or nil.
func (r *Resource) Method(name string) *Method {
	if r == nil {
		return nil
	}
	return r.methods[name]
}

// Empty reports whether the node has no child resources and no methods.
func (r *Resource) Empty() bool {
	return len(r.resources) == 0 && len(r.methods) == 0
}

func (r *Resource) walk(prefix string, out *[]string) {
	for name := range r.methods {
		*out = append(*out, join(prefix, name))
	}
	for name, child := range r.resources {
		child.walk(join(prefix, name), out)
	}
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
