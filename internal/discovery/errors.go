package discovery

import "fmt"

// SchemaError reports a malformed fragment inside a discovery document.
// It is always a construction-time failure: a document that produces a
// SchemaError never yields a client.
type SchemaError struct {
	MethodID string
	Reason   string
}

func (e *SchemaError) Error() string {
	if e.MethodID == "" {
		return fmt.Sprintf("discovery: invalid document: %s", e.Reason)
	}
	return fmt.Sprintf("discovery: invalid method %s: %s", e.MethodID, e.Reason)
}
