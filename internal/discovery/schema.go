package discovery

import "sort"

const maxResolveDepth = 10

// ResolveRef expands a schema reference into a plain map suitable for
// display. Unknown refs and cycles collapse to {"type":"object"}.
func (d *Document) ResolveRef(ref *SchemaRef) map[string]any {
	if ref == nil {
		return map[string]any{"type": "object"}
	}
	out := d.resolveSchema(&Schema{Ref: ref.Ref}, map[string]bool{}, 0)
	if ref.Description != "" {
		out["description"] = ref.Description
	}
	return out
}

func (d *Document) resolveSchema(s *Schema, seen map[string]bool, depth int) map[string]any {
	if s == nil || depth > maxResolveDepth {
		return map[string]any{"type": "object"}
	}

	if s.Ref != "" {
		if seen[s.Ref] {
			return map[string]any{"type": "object"}
		}
		seen[s.Ref] = true
		if def, ok := d.Schemas[s.Ref]; ok {
			return d.resolveSchema(def, seen, depth+1)
		}
		return map[string]any{"type": "object"}
	}

	typ := s.Type
	if typ == "" {
		typ = "object"
	}
	out := map[string]any{"type": typ}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Format != "" {
		out["format"] = s.Format
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}

	switch typ {
	case "array":
		out["items"] = d.resolveSchema(s.Items, seen, depth+1)
	case "object":
		if len(s.Properties) > 0 {
			names := make([]string, 0, len(s.Properties))
			for name := range s.Properties {
				names = append(names, name)
			}
			sort.Strings(names)
			props := map[string]any{}
			for _, name := range names {
				props[name] = d.resolveSchema(s.Properties[name], seen, depth+1)
			}
			out["properties"] = props
		}
		if len(s.Required) > 0 {
			req := append([]string(nil), s.Required...)
			sort.Strings(req)
			out["required"] = req
		}
	}
	return out
}
