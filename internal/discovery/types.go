package discovery

// Document is the root of a discovery document describing one API version.
type Document struct {
	Kind        string              `json:"kind"`
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Version     string              `json:"version"`
	Title       string              `json:"title"`
	RootURL     string              `json:"rootUrl"`
	ServicePath string              `json:"servicePath"`
	BaseURLRaw  string              `json:"baseUrl"`
	BasePath    string              `json:"basePath"`
	Resources   map[string]*Resource `json:"resources"`
	Methods     map[string]*Method   `json:"methods"`
	Parameters  map[string]*Param    `json:"parameters"`
	Schemas     map[string]*Schema   `json:"schemas"`
}

// Resource is a named node in the API surface. Resources nest arbitrarily
// deep and may carry methods at any level.
type Resource struct {
	Resources map[string]*Resource `json:"resources"`
	Methods   map[string]*Method   `json:"methods"`
}

// Method is a single callable API operation.
type Method struct {
	ID          string            `json:"id"`
	Path        string            `json:"path"`
	HTTPMethod  string            `json:"httpMethod"`
	Description string            `json:"description"`
	Parameters  map[string]*Param `json:"parameters"`
	Request     *SchemaRef        `json:"request"`
	Response    *SchemaRef        `json:"response"`
}

// Param describes one method or top-level parameter.
type Param struct {
	Location    string   `json:"location"` // path, query or body
	Type        string   `json:"type"`
	Format      string   `json:"format"`
	Description string   `json:"description"`
	Enum        []string `json:"enum"`
	Required    bool     `json:"required"`
	Repeated    bool     `json:"repeated"`
	Default     string   `json:"default"`
}

// SchemaRef points at a named entry in Document.Schemas.
type SchemaRef struct {
	Ref         string `json:"$ref"`
	Description string `json:"description"`
}

// Schema is a (partial) JSON schema as carried by discovery documents.
type Schema struct {
	ID          string             `json:"id"`
	Ref         string             `json:"$ref"`
	Type        string             `json:"type"`
	Format      string             `json:"format"`
	Description string             `json:"description"`
	Enum        []string           `json:"enum"`
	Properties  map[string]*Schema `json:"properties"`
	Items       *Schema            `json:"items"`
	Required    []string           `json:"required"`
}
