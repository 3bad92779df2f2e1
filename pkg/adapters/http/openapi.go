package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawSpec []byte

// GetSwagger returns the parsed and validated OpenAPI document.
var GetSwagger = sync.OnceValues(func() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi spec: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi spec: %w", err)
	}
	return doc, nil
})

// validateBody checks a raw JSON body against a component schema of the document.
func validateBody(doc *openapi3.T, schemaName string, body []byte) error {
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref.Value == nil {
		return fmt.Errorf("schema %q not found", schemaName)
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return ref.Value.VisitJSON(value)
}
