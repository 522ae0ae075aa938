package discovery_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apidisco/internal/discovery"
)

const nestedDoc = `{
	"kind": "discovery#restDescription",
	"name": "oauth2",
	"version": "v2",
	"rootUrl": "https://www.example.com/",
	"servicePath": "",
	"resources": {
		"userinfo": {
			"methods": {
				"get": {
					"id": "oauth2.userinfo.get",
					"path": "oauth2/v2/userinfo",
					"httpMethod": "GET"
				}
			},
			"resources": {
				"v2": {
					"resources": {
						"me": {
							"methods": {
								"get": {
									"id": "oauth2.userinfo.v2.me.get",
									"path": "userinfo/v2/me",
									"httpMethod": "GET"
								}
							}
						}
					}
				}
			}
		}
	}
}`

func TestLooksLikeDiscovery(t *testing.T) {
	assert.True(t, discovery.LooksLikeDiscovery([]byte(`{"kind":"discovery#restDescription"}`)))
	assert.False(t, discovery.LooksLikeDiscovery([]byte(`{"openapi":"3.0.0"}`)))
	assert.False(t, discovery.LooksLikeDiscovery([]byte(`not json`)))
}

func TestParseNestedResources(t *testing.T) {
	doc, err := discovery.Parse([]byte(nestedDoc))
	require.NoError(t, err)

	assert.Equal(t, "oauth2", doc.Name)
	assert.Equal(t, "v2", doc.Version)

	ids := doc.MethodIDs()
	assert.Equal(t, []string{"userinfo.get", "userinfo.v2.me.get"}, ids)
}

func TestParseRejectsMethodWithoutVerb(t *testing.T) {
	raw := []byte(`{
		"name": "demo",
		"version": "v1",
		"resources": {
			"widgets": {
				"methods": {
					"list": {"id": "demo.widgets.list", "path": "widgets"}
				}
			}
		}
	}`)
	_, err := discovery.Parse(raw)

	var schemaErr *discovery.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "demo.widgets.list", schemaErr.MethodID)
}

func TestParseRejectsMethodWithoutPath(t *testing.T) {
	raw := []byte(`{
		"name": "demo",
		"version": "v1",
		"methods": {
			"ping": {"httpMethod": "GET"}
		}
	}`)
	_, err := discovery.Parse(raw)

	var schemaErr *discovery.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Error(), "missing path")
}

func TestParseRejectsMissingName(t *testing.T) {
	_, err := discovery.Parse([]byte(`{"version": "v1"}`))
	var schemaErr *discovery.SchemaError
	require.True(t, errors.As(err, &schemaErr))
}

func TestBaseURLPrecedence(t *testing.T) {
	tests := []struct {
		name string
		doc  discovery.Document
		want string
	}{
		{
			name: "explicit baseUrl wins",
			doc: discovery.Document{
				BaseURLRaw: "https://api.example.com/v1/",
				RootURL:    "https://other.example.com/",
			},
			want: "https://api.example.com/v1",
		},
		{
			name: "rootUrl plus servicePath",
			doc: discovery.Document{
				RootURL:     "https://api.example.com/",
				ServicePath: "demo/v1/",
			},
			want: "https://api.example.com/demo/v1",
		},
		{
			name: "basePath fallback",
			doc:  discovery.Document{BasePath: "/demo/v1/"},
			want: "/demo/v1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.doc.BaseURL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBaseURLMissing(t *testing.T) {
	var doc discovery.Document
	_, err := doc.BaseURL()
	var schemaErr *discovery.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}
