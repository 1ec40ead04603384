package document

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

//go:embed schema.json
var schemaJSON []byte

var resolvedSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	var schema jsonschema.Schema
	if err := json.Unmarshal(schemaJSON, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse document schema: %w", err)
	}
	return schema.Resolve(nil)
})

// Load reads an extraction result from r.
//
// The raw JSON is checked against the document schema before it is decoded,
// so structural problems are reported before any table or layout work starts.
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a serialized extraction result.
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	schema, err := resolvedSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Validate checks the invariants the schema cannot express.
func (d *Document) Validate() error {
	if d.ContentTree == nil {
		return fmt.Errorf("%w: missing content tree", ErrValidation)
	}
	if d.ContentTree.Type != CategoryDocument {
		return fmt.Errorf("%w: content tree root must be %s, got %s",
			ErrValidation, CategoryDocument, d.ContentTree.Type)
	}
	return nil
}
