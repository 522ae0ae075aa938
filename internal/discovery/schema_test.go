package discovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apidisco/internal/discovery"
)

func TestResolveRef(t *testing.T) {
	doc := &discovery.Document{
		Schemas: map[string]*discovery.Schema{
			"Widget": {
				ID:   "Widget",
				Type: "object",
				Properties: map[string]*discovery.Schema{
					"id":   {Type: "string"},
					"tags": {Type: "array", Items: &discovery.Schema{Type: "string"}},
				},
				Required: []string{"id"},
			},
		},
	}

	out := doc.ResolveRef(&discovery.SchemaRef{Ref: "Widget"})
	require.Equal(t, "object", out["type"])

	props, ok := out["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "id")
	assert.Contains(t, props, "tags")
	assert.Equal(t, []string{"id"}, out["required"])
}

func TestResolveRefCycleCollapses(t *testing.T) {
	doc := &discovery.Document{
		Schemas: map[string]*discovery.Schema{
			"Node": {
				ID:   "Node",
				Type: "object",
				Properties: map[string]*discovery.Schema{
					"next": {Ref: "Node"},
				},
			},
		},
	}

	out := doc.ResolveRef(&discovery.SchemaRef{Ref: "Node"})
	props, ok := out["properties"].(map[string]any)
	require.True(t, ok)

	next, ok := props["next"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "object", next["type"])
}

func TestResolveRefUnknownAndNil(t *testing.T) {
	doc := &discovery.Document{}
	assert.Equal(t, map[string]any{"type": "object"}, doc.ResolveRef(nil))

	out := doc.ResolveRef(&discovery.SchemaRef{Ref: "Missing", Description: "body"})
	assert.Equal(t, "object", out["type"])
	assert.Equal(t, "body", out["description"])
}
