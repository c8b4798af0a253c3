package cv

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema describes a CV file: a root object with exactly one member,
// whose value is the object of sections.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "minProperties": 1,
  "maxProperties": 1,
  "additionalProperties": { "type": "object" }
}`

var documentSchemaLoader = gojsonschema.NewStringLoader(documentSchema)

// ValidateShape checks data against the CV document schema.
// It returns a *SchemaError listing each violation, or an error wrapping
// ErrMalformedJSON if data is not JSON at all.
func ValidateShape(data []byte) error {
	result, err := gojsonschema.Validate(documentSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Fields: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Fields = append(schemaErr.Fields, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return schemaErr
}
