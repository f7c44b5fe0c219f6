package schema

import (
	"context"
	"strings"
)

// Issue describes a single validation failure.
type Issue struct {
	Path    []string `json:"path,omitempty"`
	Message string   `json:"message"`
}

// Field returns the first path segment, or "" for issues reported against
// the whole payload.
func (i Issue) Field() string {
	if len(i.Path) == 0 {
		return ""
	}
	return i.Path[0]
}

// String renders the issue as "path: message".
func (i Issue) String() string {
	if len(i.Path) == 0 {
		return i.Message
	}
	return strings.Join(i.Path, ".") + ": " + i.Message
}

// Validator checks parsed form data. An empty issue slice means the data was
// accepted; a non-nil error means validation itself could not run.
type Validator interface {
	Validate(ctx context.Context, data map[string]any) ([]Issue, error)
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc func(ctx context.Context, data map[string]any) ([]Issue, error)

// Validate calls fn.
func (fn ValidatorFunc) Validate(ctx context.Context, data map[string]any) ([]Issue, error) {
	return fn(ctx, data)
}

// AcceptAll is a Validator that never reports issues.
var AcceptAll Validator = ValidatorFunc(func(context.Context, map[string]any) ([]Issue, error) {
	return nil, nil
})
