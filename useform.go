// Package useform binds form submissions, change tracking and schema
// validation errors for one form instance. The root package re-exports the
// common types and offers constructors wiring a validator from a Go struct or
// an OpenAPI document; pkg/form holds the implementation.
package useform

import (
	"context"
	"errors"
	"fmt"

	"github.com/matheuspbmarques/go-useform/pkg/form"
	"github.com/matheuspbmarques/go-useform/pkg/schema"
)

// FormErrors maps field names to their current error.
type FormErrors = form.FormErrors

// FieldError is the error recorded for a single field.
type FieldError = form.FieldError

// Registration binds an input to a form.
type Registration = form.Registration

// Data is a parsed submission.
type Data = form.Data

// ErrInvalid matches validation failures returned by HandleSubmit.
var ErrInvalid = form.ErrInvalid

// New creates a form validated by validator.
func New[T any](validator schema.Validator, opts ...form.Option) *form.Form[T] {
	return form.New[T](validator, opts...)
}

// FromStruct creates a form whose validator is reflected from T's json and
// jsonschema tags.
func FromStruct[T any](opts ...form.Option) (*form.Form[T], error) {
	validator, err := schema.Reflect[T]()
	if err != nil {
		return nil, err
	}
	return form.New[T](validator, opts...), nil
}

// Request selects the OpenAPI schema a form validates against. Document wins
// over Source when both are set.
type Request struct {
	Source     schema.Source
	Document   *schema.Document
	Target     schema.Target
	Load       []schema.LoadOption
	Validation []schema.OpenAPIOption
}

// FromOpenAPI loads the requested document and creates a form validated by
// the selected operation request body or component schema.
func FromOpenAPI[T any](ctx context.Context, req Request, opts ...form.Option) (*form.Form[T], *schema.OpenAPI, error) {
	var doc schema.Document
	switch {
	case req.Document != nil:
		doc = *req.Document
	case req.Source != nil:
		loaded, err := schema.Load(ctx, req.Source, req.Load...)
		if err != nil {
			return nil, nil, err
		}
		doc = loaded
	default:
		return nil, nil, errors.New("useform: request needs a source or document")
	}

	validator, err := schema.FromDocument(ctx, doc, req.Target, req.Validation...)
	if err != nil {
		return nil, nil, fmt.Errorf("useform: %s: %w", doc.Location(), err)
	}
	return form.New[T](validator, opts...), validator, nil
}
