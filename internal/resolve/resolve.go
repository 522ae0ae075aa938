// Package resolve merges client-level default parameters with call-site
// parameters and schema-declared defaults, then partitions the result
// into the path, query and body pieces of an outbound request.
package resolve

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"apidisco/internal/discovery"
)

// MissingParameterError reports a required parameter with no resolved
// value. It is scoped to one invocation; no request is built when it
// occurs.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("resolve: missing required parameter %q", e.Name)
}

// Resolved is a fully resolved invocation ready for transport.
type Resolved struct {
	Verb  string
	Path  string
	Query url.Values
	Body  map[string]any
}

// Resolve merges parameter values for one invocation of m.
//
// Precedence, highest first: call-site value, client default, schema
// default. Parameter schemas declared on the method shadow same-named
// top-level (global) schemas entirely. Names with no declared schema are
// sent as query parameters.
func Resolve(m *discovery.Method, globals map[string]*discovery.Param, defaults, call map[string]any) (*Resolved, error) {
	schemas := mergeSchemas(globals, m.Parameters)

	values := map[string]any{}
	for name, p := range schemas {
		if p != nil && p.Default != "" {
			values[name] = p.Default
		}
	}
	for name, v := range defaults {
		values[name] = v
	}
	for name, v := range call {
		values[name] = v
	}

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := schemas[name]
		if p == nil || !p.Required {
			continue
		}
		if !present(values[name]) {
			return nil, &MissingParameterError{Name: name}
		}
	}

	resolved := &Resolved{
		Verb:  strings.ToUpper(m.HTTPMethod),
		Query: url.Values{},
	}

	pathValues := map[string]any{}
	valueNames := make([]string, 0, len(values))
	for name := range values {
		valueNames = append(valueNames, name)
	}
	sort.Strings(valueNames)
	for _, name := range valueNames {
		v := values[name]
		if !present(v) {
			continue
		}
		switch location(schemas[name]) {
		case "path":
			pathValues[name] = v
		case "body":
			if resolved.Body == nil {
				resolved.Body = map[string]any{}
			}
			resolved.Body[name] = v
		default:
			addQueryValue(resolved.Query, name, v)
		}
	}

	path, err := fillPath(m.Path, pathValues)
	if err != nil {
		return nil, err
	}
	resolved.Path = "/" + strings.TrimLeft(path, "/")
	return resolved, nil
}

func mergeSchemas(globals, local map[string]*discovery.Param) map[string]*discovery.Param {
	merged := map[string]*discovery.Param{}
	for name, p := range globals {
		merged[name] = p
	}
	for name, p := range local {
		merged[name] = p
	}
	return merged
}

func location(p *discovery.Param) string {
	if p == nil || p.Location == "" {
		return "query"
	}
	return strings.ToLower(p.Location)
}

func present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}

func addQueryValue(values url.Values, name string, v any) {
	switch vv := v.(type) {
	case []any:
		for _, item := range vv {
			values.Add(name, valueToString(item))
		}
	case []string:
		for _, item := range vv {
			values.Add(name, item)
		}
	default:
		values.Add(name, valueToString(v))
	}
}

func valueToString(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	case fmt.Stringer:
		return vv.String()
	default:
		return fmt.Sprint(v)
	}
}

var pathParamRE = regexp.MustCompile(`\{([^}]+)\}`)

func fillPath(path string, values map[string]any) (string, error) {
	matches := pathParamRE.FindAllStringSubmatchIndex(path, -1)
	if len(matches) == 0 {
		return path, nil
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(path[last:m[0]])
		name := path[m[2]:m[3]]
		v, ok := values[name]
		if !ok {
			return "", &MissingParameterError{Name: name}
		}
		b.WriteString(url.PathEscape(valueToString(v)))
		last = m[1]
	}
	b.WriteString(path[last:])
	return b.String(), nil
}
