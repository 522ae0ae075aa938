package discovery

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed metaschema.json
var metaSchemaJSON []byte

var (
	metaOnce   sync.Once
	metaSchema *jsonschema.Schema
	metaErr    error
)

func compiledMetaSchema() (*jsonschema.Schema, error) {
	metaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("discovery.json", bytes.NewReader(metaSchemaJSON)); err != nil {
			metaErr = err
			return
		}
		metaSchema, metaErr = compiler.Compile("discovery.json")
	})
	return metaSchema, metaErr
}

// ValidateRaw checks a raw discovery document against the bundled
// meta-schema. This is stricter than Parse: it rejects unknown parameter
// locations and malformed HTTP verbs before any client is built. It does
// not validate request bodies against the document's own schemas.
func ValidateRaw(raw []byte) error {
	schema, err := compiledMetaSchema()
	if err != nil {
		return fmt.Errorf("discovery: compile meta-schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("discovery: parse failed: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return &SchemaError{Reason: err.Error()}
	}
	return nil
}
