// Package schema adapts external validation libraries to the Validator
// contract used by forms. The OpenAPI validator wraps kin-openapi schemas and
// coerces raw form strings to the declared property types before validating,
// so a `type: integer` property accepts the "42" a browser submits. Issues
// carry the JSON pointer reported by the library as a segment path; forms key
// their errors by the first segment.
package schema
