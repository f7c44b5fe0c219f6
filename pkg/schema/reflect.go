package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Reflect derives a validator from the json and jsonschema tags of T. Fields
// without `omitempty` are required; unknown submitted fields are allowed so
// hidden inputs such as CSRF tokens do not fail validation.
func Reflect[T any](opts ...OpenAPIOption) (*OpenAPI, error) {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	reflected := r.Reflect(new(T))
	if reflected == nil || reflected.Type != "object" {
		return nil, fmt.Errorf("schema: %T does not reflect to an object schema", *new(T))
	}
	reflected.Version = ""
	reflected.ID = ""

	raw, err := json.Marshal(reflected)
	if err != nil {
		return nil, fmt.Errorf("schema: encode reflected schema: %w", err)
	}

	s, err := decodeSchemaJSON(raw)
	if err != nil {
		return nil, err
	}
	return NewOpenAPI(s, opts...)
}

// MustReflect is Reflect that panics on error, for package-level validators.
func MustReflect[T any](opts ...OpenAPIOption) *OpenAPI {
	v, err := Reflect[T](opts...)
	if err != nil {
		panic(err)
	}
	return v
}
