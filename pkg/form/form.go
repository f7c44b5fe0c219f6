package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/matheuspbmarques/go-useform/pkg/schema"
)

// SubmitFunc receives the decoded submission once validation succeeds.
type SubmitFunc[T any] func(ctx context.Context, data T) error

// Registration binds an input to the form. Hosts call OnChange whenever the
// input's value changes.
type Registration struct {
	Name     string
	OnChange func()
}

// State is a snapshot of the observable form state.
type State struct {
	Errors     FormErrors
	Submitting bool
	WasChanged bool
}

// Listener is notified after every state change.
type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// Form holds the state of one form instance. It is safe for concurrent use,
// but HandleSubmit does not serialise overlapping submissions: hosts that
// care should check IsSubmitting first.
type Form[T any] struct {
	validator schema.Validator
	decode    DecodeFunc[T]
	hidden    map[string]struct{}

	mu          sync.Mutex
	errors      FormErrors
	submitting  bool
	changed     bool
	subscribers []subscription
	nextID      int
}

// New creates a form validated by validator. A nil validator accepts every
// submission.
func New[T any](validator schema.Validator, opts ...Option) *Form[T] {
	o := options{hidden: make(map[string]struct{})}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if validator == nil {
		validator = schema.AcceptAll
	}

	decode := DecodeFunc[T](Decode[T])
	if o.decoder != nil {
		fn, ok := o.decoder.(DecodeFunc[T])
		if !ok {
			panic(fmt.Sprintf("form: decoder %T does not match form type %T", o.decoder, *new(T)))
		}
		decode = fn
	}

	return &Form[T]{
		validator: validator,
		decode:    decode,
		hidden:    o.hidden,
		errors:    make(FormErrors),
	}
}

// Register returns the binding for the named input. Its OnChange marks the
// form as changed and clears a recorded error for that input; it never
// validates.
func (f *Form[T]) Register(name string) Registration {
	return Registration{
		Name: name,
		OnChange: func() {
			f.change(name)
		},
	}
}

func (f *Form[T]) change(name string) {
	f.mu.Lock()
	notify := false
	if !f.changed {
		f.changed = true
		notify = true
	}
	if _, ok := f.errors[name]; ok {
		delete(f.errors, name)
		notify = true
	}
	f.mu.Unlock()

	if notify {
		f.publish()
	}
}

// HandleSubmit processes one submission:
//
//  1. event.PreventDefault and mark the form as submitting;
//  2. parse the event's entries into Data (repeated names become []any);
//  3. validate; on issues replace the recorded errors, clear submitting and
//     return a *ValidationError (errors.Is(err, ErrInvalid));
//  4. otherwise decode Data into T and call submit.
//
// After a successful validation the form stays in the submitting state until
// the caller invokes SetSubmitting(false) or Reset. Failures of the event, the
// validator or the decoder are returned and leave the state untouched.
func (f *Form[T]) HandleSubmit(ctx context.Context, event Event, submit SubmitFunc[T]) error {
	if event == nil {
		return errors.New("form: event is nil")
	}
	event.PreventDefault()
	f.SetSubmitting(true)

	entries, err := event.FormData()
	if err != nil {
		return err
	}
	data := ParseFormData(f.visible(entries))

	issues, err := f.validator.Validate(ctx, data)
	if err != nil {
		return fmt.Errorf("form: validate: %w", err)
	}

	if len(issues) > 0 {
		errs := ErrorsFromIssues(issues)
		f.mu.Lock()
		f.errors = errs
		f.submitting = false
		f.mu.Unlock()
		f.publish()
		return &ValidationError{Errors: errs.Clone(), Issues: issues}
	}

	var value T
	if err := f.decode(data, &value); err != nil {
		return fmt.Errorf("form: decode submission: %w", err)
	}
	if submit == nil {
		return nil
	}
	return submit(ctx, value)
}

func (f *Form[T]) visible(entries FormData) FormData {
	if len(f.hidden) == 0 {
		return entries
	}
	out := make(FormData, 0, len(entries))
	for _, entry := range entries {
		if _, ok := f.hidden[entry.Name]; ok {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// SetError records message for name, replacing any existing error. Use it for
// server-side or cross-field failures the schema cannot express.
func (f *Form[T]) SetError(name, message string) {
	f.mu.Lock()
	f.errors[name] = FieldError{Message: message}
	f.mu.Unlock()
	f.publish()
}

// Errors returns a copy of the recorded errors.
func (f *Form[T]) Errors() FormErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors.Clone()
}

// Error returns the error recorded for name.
func (f *Form[T]) Error(name string) (FieldError, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fieldErr, ok := f.errors[name]
	return fieldErr, ok
}

// HasErrors reports whether any field has a recorded error.
func (f *Form[T]) HasErrors() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errors) > 0
}

// IsSubmitting reports whether a submission is in progress.
func (f *Form[T]) IsSubmitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// SetSubmitting overrides the submitting flag.
func (f *Form[T]) SetSubmitting(submitting bool) {
	f.mu.Lock()
	changed := f.submitting != submitting
	f.submitting = submitting
	f.mu.Unlock()
	if changed {
		f.publish()
	}
}

// WasChanged reports whether any registered input has changed.
func (f *Form[T]) WasChanged() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.changed
}

// SetWasChanged overrides the changed flag.
func (f *Form[T]) SetWasChanged(changed bool) {
	f.mu.Lock()
	notify := f.changed != changed
	f.changed = changed
	f.mu.Unlock()
	if notify {
		f.publish()
	}
}

// State returns a snapshot of the current state.
func (f *Form[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

// Reset clears errors and both flags, for reusing a form after a successful
// submission.
func (f *Form[T]) Reset() {
	f.mu.Lock()
	f.errors = make(FormErrors)
	f.submitting = false
	f.changed = false
	f.mu.Unlock()
	f.publish()
}

// Subscribe registers fn for state changes and returns a function that
// removes it. Listeners run synchronously, in subscription order, on the
// goroutine that changed the state.
func (f *Form[T]) Subscribe(fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.subscribers = append(f.subscribers, subscription{id: id, fn: fn})
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i, sub := range f.subscribers {
				if sub.id == id {
					f.subscribers = append(f.subscribers[:i:i], f.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

func (f *Form[T]) snapshot() State {
	return State{
		Errors:     f.errors.Clone(),
		Submitting: f.submitting,
		WasChanged: f.changed,
	}
}

func (f *Form[T]) publish() {
	f.mu.Lock()
	state := f.snapshot()
	subscribers := append([]subscription(nil), f.subscribers...)
	f.mu.Unlock()

	for _, sub := range subscribers {
		sub.fn(state)
	}
}
