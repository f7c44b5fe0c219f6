package schema

import (
	"context"
	"errors"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPI validates form data against a kin-openapi schema.
type OpenAPI struct {
	schema  *openapi3.Schema
	options []openapi3.SchemaValidationOption
	coerce  bool
}

// OpenAPIOption configures an OpenAPI validator.
type OpenAPIOption func(*OpenAPI)

// WithoutCoercion validates submitted strings as-is instead of converting them
// to the declared property types first.
func WithoutCoercion() OpenAPIOption {
	return func(v *OpenAPI) {
		v.coerce = false
	}
}

// WithValidationOptions forwards extra options to Schema.VisitJSON.
func WithValidationOptions(opts ...openapi3.SchemaValidationOption) OpenAPIOption {
	return func(v *OpenAPI) {
		v.options = append(v.options, opts...)
	}
}

// NewOpenAPI wraps an already parsed schema.
func NewOpenAPI(s *openapi3.Schema, opts ...OpenAPIOption) (*OpenAPI, error) {
	if s == nil {
		return nil, errors.New("schema: openapi schema is nil")
	}
	v := &OpenAPI{schema: s, coerce: true}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v, nil
}

// Schema exposes the wrapped kin-openapi schema.
func (v *OpenAPI) Schema() *openapi3.Schema {
	return v.schema
}

// Validate implements Validator. Every schema violation becomes an Issue; only
// failures that are not schema errors are returned as err.
func (v *OpenAPI) Validate(ctx context.Context, data map[string]any) ([]Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value := v.Coerce(data)

	opts := make([]openapi3.SchemaValidationOption, 0, len(v.options)+1)
	opts = append(opts, openapi3.MultiErrors())
	opts = append(opts, v.options...)

	err := v.schema.VisitJSON(value, opts...)
	if err == nil {
		return nil, nil
	}

	issues := collectIssues(err)
	if len(issues) == 0 {
		return nil, err
	}
	return issues, nil
}

// Coerce returns data as Validate sees it: form strings converted to the
// declared property types and uploads replaced by their file names. With
// WithoutCoercion only the upload replacement applies.
func (v *OpenAPI) Coerce(data map[string]any) map[string]any {
	if v.coerce {
		return coerceObject(v.schema, data)
	}
	return plainObject(data)
}

func collectIssues(err error) []Issue {
	switch typed := err.(type) {
	case openapi3.MultiError:
		var issues []Issue
		for _, inner := range typed {
			issues = append(issues, collectIssues(inner)...)
		}
		return issues
	case *openapi3.SchemaError:
		return []Issue{{
			Path:    typed.JSONPointer(),
			Message: schemaErrorMessage(typed),
		}}
	default:
		return nil
	}
}

func schemaErrorMessage(err *openapi3.SchemaError) string {
	if reason := strings.TrimSpace(err.Reason); reason != "" {
		return reason
	}
	return strings.TrimSpace(err.Error())
}
