package discovery

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// LooksLikeDiscovery reports whether payload appears to be a discovery document.
func LooksLikeDiscovery(raw []byte) bool {
	var payload struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return false
	}
	return strings.HasPrefix(strings.ToLower(payload.Kind), "discovery#")
}

// Parse decodes a raw discovery document and checks it structurally.
// Every method in the tree must carry an HTTP verb and a path template;
// the first violation aborts the parse with a *SchemaError.
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("discovery: parse failed: %w", err)
	}
	if doc.Name == "" {
		return nil, &SchemaError{Reason: "missing api name"}
	}
	if doc.Version == "" {
		return nil, &SchemaError{Reason: "missing api version"}
	}
	if err := checkMethods("", doc.Methods); err != nil {
		return nil, err
	}
	for name, res := range doc.Resources {
		if err := checkResource(name, res); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

// BaseURL resolves the document's base URL, preferring the explicit
// baseUrl field over rootUrl+servicePath.
func (d *Document) BaseURL() (string, error) {
	if d.BaseURLRaw != "" {
		return strings.TrimRight(d.BaseURLRaw, "/"), nil
	}
	if d.RootURL != "" || d.ServicePath != "" {
		return strings.TrimRight(d.RootURL+d.ServicePath, "/"), nil
	}
	if d.BasePath != "" {
		return strings.TrimRight(d.BasePath, "/"), nil
	}
	return "", &SchemaError{Reason: "base URL missing"}
}

// MethodIDs returns the fully-qualified names of every method in the
// document, sorted, regardless of nesting depth.
func (d *Document) MethodIDs() []string {
	var ids []string
	ids = append(ids, methodNames("", d.Methods)...)
	for name, res := range d.Resources {
		ids = append(ids, resourceMethodNames(name, res)...)
	}
	sort.Strings(ids)
	return ids
}

func methodNames(prefix string, methods map[string]*Method) []string {
	var out []string
	for name := range methods {
		out = append(out, joinName(prefix, name))
	}
	return out
}

func resourceMethodNames(prefix string, res *Resource) []string {
	if res == nil {
		return nil
	}
	out := methodNames(prefix, res.Methods)
	for name, child := range res.Resources {
		out = append(out, resourceMethodNames(joinName(prefix, name), child)...)
	}
	return out
}

func joinName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func checkResource(prefix string, res *Resource) error {
	if res == nil {
		return nil
	}
	if err := checkMethods(prefix, res.Methods); err != nil {
		return err
	}
	for name, child := range res.Resources {
		if err := checkResource(joinName(prefix, name), child); err != nil {
			return err
		}
	}
	return nil
}

func checkMethods(prefix string, methods map[string]*Method) error {
	for name, m := range methods {
		id := joinName(prefix, name)
		if m == nil {
			return &SchemaError{MethodID: id, Reason: "empty method"}
		}
		if m.ID != "" {
			id = m.ID
		}
		if m.HTTPMethod == "" {
			return &SchemaError{MethodID: id, Reason: "missing httpMethod"}
		}
		if m.Path == "" {
			return &SchemaError{MethodID: id, Reason: "missing path"}
		}
	}
	return nil
}
