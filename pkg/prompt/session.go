package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/matheuspbmarques/go-useform/pkg/form"
)

// DefaultMaxAttempts bounds how often a session re-prompts invalid fields.
const DefaultMaxAttempts = 3

type sessionOptions struct {
	driver      PromptDriver
	maxAttempts int
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

// WithDriver overrides the survey driver.
func WithDriver(driver PromptDriver) SessionOption {
	return func(o *sessionOptions) {
		if driver != nil {
			o.driver = driver
		}
	}
}

// WithMaxAttempts overrides DefaultMaxAttempts.
func WithMaxAttempts(n int) SessionOption {
	return func(o *sessionOptions) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// Session drives a form from the terminal. Every field is prompted once; after
// a rejected submission only the fields with errors are asked again.
type Session[T any] struct {
	form        *form.Form[T]
	fields      []Field
	driver      PromptDriver
	maxAttempts int
}

// NewSession binds fields to f.
func NewSession[T any](f *form.Form[T], fields []Field, opts ...SessionOption) *Session[T] {
	o := sessionOptions{maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.driver == nil {
		o.driver = NewSurveyDriver(nil)
	}
	return &Session[T]{
		form:        f,
		fields:      fields,
		driver:      o.driver,
		maxAttempts: o.maxAttempts,
	}
}

// Run prompts, submits and re-prompts until submit has been called or the
// attempts are exhausted. Errors other than validation failures (including
// the one returned by submit) end the session immediately.
func (s *Session[T]) Run(ctx context.Context, submit form.SubmitFunc[T]) error {
	if s.form == nil {
		return errors.New("prompt: session has no form")
	}

	answers := make(map[string][]string, len(s.fields))
	pending := s.fields
	var errs form.FormErrors
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		for _, field := range pending {
			values, err := s.driver.Ask(ctx, Question{
				Field:    field,
				Previous: answers[field.Name],
				Problem:  errs[field.Name].Message,
			})
			if err != nil {
				return err
			}
			answers[field.Name] = values
			s.form.Register(field.Name).OnChange()
		}

		err := s.form.HandleSubmit(ctx, form.NewEntriesEvent(s.entries(answers)...), submit)
		if !errors.Is(err, form.ErrInvalid) {
			return err
		}

		errs = s.form.Errors()
		if err := s.report(ctx, errs); err != nil {
			return err
		}
		pending = s.failing(errs)
	}
	return ErrTooManyAttempts
}

func (s *Session[T]) entries(answers map[string][]string) []form.Entry {
	var entries []form.Entry
	for _, field := range s.fields {
		for _, value := range answers[field.Name] {
			entries = append(entries, form.Entry{Name: field.Name, Value: value})
		}
	}
	return entries
}

// failing returns the fields with recorded errors, or every field when the
// errors point at nothing the session prompts for.
func (s *Session[T]) failing(errs form.FormErrors) []Field {
	var out []Field
	for _, field := range s.fields {
		if _, ok := errs[field.Name]; ok {
			out = append(out, field)
		}
	}
	if len(out) == 0 {
		return s.fields
	}
	return out
}

func (s *Session[T]) report(ctx context.Context, errs form.FormErrors) error {
	for _, name := range errs.Fields() {
		label := name
		if label == "" {
			label = "form"
		}
		for _, field := range s.fields {
			if field.Name == name && field.Label != "" {
				label = field.Label
			}
		}
		if err := s.driver.Info(ctx, fmt.Sprintf("✗ %s: %s", label, errs[name].Message)); err != nil {
			return err
		}
	}
	return nil
}
