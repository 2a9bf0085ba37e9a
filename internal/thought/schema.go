package thought

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// responseSchema is the subset of a generateContent response we rely on:
// at least one candidate whose first part carries non-empty text.
const responseSchema = `{
  "type": "object",
  "required": ["candidates"],
  "properties": {
    "candidates": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["content"],
        "properties": {
          "content": {
            "type": "object",
            "required": ["parts"],
            "properties": {
              "parts": {
                "type": "array",
                "minItems": 1,
                "items": {
                  "type": "object",
                  "required": ["text"],
                  "properties": {
                    "text": {"type": "string", "minLength": 1}
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

var (
	responseSchemaOnce sync.Once
	responseSchemaVal  *gojsonschema.Schema
	responseSchemaErr  error
)

func loadResponseSchema() (*gojsonschema.Schema, error) {
	responseSchemaOnce.Do(func() {
		responseSchemaVal, responseSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	})
	return responseSchemaVal, responseSchemaErr
}

// validateResponse checks raw against responseSchema.
func validateResponse(raw []byte) error {
	schema, err := loadResponseSchema()
	if err != nil {
		return fmt.Errorf("thought: load response schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("%w: %w", ErrMalformed, schemaValidationError{issues: issues})
}
