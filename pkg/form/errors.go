package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/matheuspbmarques/go-useform/pkg/schema"
)

// ErrInvalid matches every *ValidationError returned by HandleSubmit.
var ErrInvalid = errors.New("form: invalid submission")

// ErrNoRequest is returned by a RequestEvent built without a request.
var ErrNoRequest = errors.New("form: request is nil")

// FieldError is the error recorded for a single field.
type FieldError struct {
	Message string `json:"message"`
}

// FormErrors maps field names to their current error.
type FormErrors map[string]FieldError

// Clone returns a copy of errs. The copy of an empty map is an empty,
// non-nil map.
func (errs FormErrors) Clone() FormErrors {
	out := make(FormErrors, len(errs))
	for name, fieldErr := range errs {
		out[name] = fieldErr
	}
	return out
}

// Message returns the message recorded for name, or "".
func (errs FormErrors) Message(name string) string {
	return errs[name].Message
}

// Fields returns the names with recorded errors, sorted.
func (errs FormErrors) Fields() []string {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrorsFromIssues keys issues by their first path segment. When several
// issues share a field the last one wins.
func ErrorsFromIssues(issues []schema.Issue) FormErrors {
	out := make(FormErrors, len(issues))
	for _, issue := range issues {
		out[issue.Field()] = FieldError{Message: issue.Message}
	}
	return out
}

// ValidationError is returned by HandleSubmit when the validator rejects the
// submission. The same errors are recorded on the form.
type ValidationError struct {
	Errors FormErrors
	Issues []schema.Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return ErrInvalid.Error()
	}
	parts := make([]string, 0, len(e.Errors))
	for _, name := range e.Errors.Fields() {
		label := name
		if label == "" {
			label = "form"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", label, e.Errors[name].Message))
	}
	return ErrInvalid.Error() + " (" + strings.Join(parts, "; ") + ")"
}

// Is reports ErrInvalid as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}
