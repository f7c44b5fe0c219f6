package form_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matheuspbmarques/go-useform/pkg/form"
	"github.com/matheuspbmarques/go-useform/pkg/schema"
)

func rejectField(field, message string) schema.Validator {
	return schema.ValidatorFunc(func(_ context.Context, data map[string]any) ([]schema.Issue, error) {
		if _, ok := data[field]; !ok {
			return nil, nil
		}
		return []schema.Issue{{Path: []string{field}, Message: message}}, nil
	})
}

func TestHandleSubmit_RejectedFieldRecordsError(t *testing.T) {
	f := form.New[form.Data](rejectField("email", "invalid"))
	event := form.NewValuesEvent(url.Values{"email": {"x"}})

	called := false
	err := f.HandleSubmit(context.Background(), event, func(context.Context, form.Data) error {
		called = true
		return nil
	})

	if !errors.Is(err, form.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var validationErr *form.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if called {
		t.Fatalf("submit callback must not run on invalid data")
	}
	if !event.Prevented() {
		t.Fatalf("expected PreventDefault to be called")
	}

	want := form.FormErrors{"email": {Message: "invalid"}}
	if diff := cmp.Diff(want, f.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, validationErr.Errors); diff != "" {
		t.Fatalf("validation error mismatch (-want +got):\n%s", diff)
	}
	if f.IsSubmitting() {
		t.Fatalf("expected submitting to reset after validation failure")
	}
}

func TestHandleSubmit_AcceptedDataReachesCallbackOnce(t *testing.T) {
	f := form.New[form.Data](schema.AcceptAll)
	f.SetError("stale", "from before")

	var calls []form.Data
	err := f.HandleSubmit(context.Background(), form.NewValuesEvent(url.Values{"name": {"a"}}), func(_ context.Context, data form.Data) error {
		calls = append(calls, data)
		return nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if diff := cmp.Diff([]form.Data{{"name": "a"}}, calls); diff != "" {
		t.Fatalf("callback data mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(form.FormErrors{"stale": {Message: "from before"}}, f.Errors()); diff != "" {
		t.Fatalf("errors must be untouched on success (-want +got):\n%s", diff)
	}
	if !f.IsSubmitting() {
		t.Fatalf("submitting stays set after success")
	}

	f.SetSubmitting(false)
	if f.IsSubmitting() {
		t.Fatalf("expected caller reset to clear submitting")
	}
}

func TestHandleSubmit_ReplacesErrorsWholesale(t *testing.T) {
	f := form.New[form.Data](rejectField("name", "too short"))
	f.SetError("email", "taken")

	err := f.HandleSubmit(context.Background(), form.NewValuesEvent(url.Values{"name": {"a"}}), nil)
	if !errors.Is(err, form.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	want := form.FormErrors{"name": {Message: "too short"}}
	if diff := cmp.Diff(want, f.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleSubmit_LastIssuePerFieldWins(t *testing.T) {
	validator := schema.ValidatorFunc(func(context.Context, map[string]any) ([]schema.Issue, error) {
		return []schema.Issue{
			{Path: []string{"password"}, Message: "too short"},
			{Path: []string{"password", "0"}, Message: "needs a digit"},
			{Message: "passwords differ"},
		}, nil
	})
	f := form.New[form.Data](validator)

	_ = f.HandleSubmit(context.Background(), form.NewValuesEvent(url.Values{"password": {"x"}}), nil)

	want := form.FormErrors{
		"password": {Message: "needs a digit"},
		"":         {Message: "passwords differ"},
	}
	if diff := cmp.Diff(want, f.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleSubmit_ParsesScalarsAndSequences(t *testing.T) {
	f := form.New[form.Data](nil)

	var got form.Data
	event := form.NewEntriesEvent(
		form.Entry{Name: "name", Value: "ada"},
		form.Entry{Name: "tags", Value: "go"},
		form.Entry{Name: "tags", Value: "zig"},
		form.Entry{Name: "tags", Value: "c"},
	)
	err := f.HandleSubmit(context.Background(), event, func(_ context.Context, data form.Data) error {
		got = data
		return nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := form.Data{"name": "ada", "tags": []any{"go", "zig", "c"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parsed data mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleSubmit_PropagatesFailures(t *testing.T) {
	boom := errors.New("boom")

	failing := form.New[form.Data](schema.ValidatorFunc(func(context.Context, map[string]any) ([]schema.Issue, error) {
		return nil, boom
	}))
	if err := failing.HandleSubmit(context.Background(), form.NewValuesEvent(nil), nil); !errors.Is(err, boom) {
		t.Fatalf("expected validator error, got %v", err)
	}
	if !failing.IsSubmitting() {
		t.Fatalf("validator failures leave the submitting flag as-is")
	}

	accepting := form.New[form.Data](nil)
	err := accepting.HandleSubmit(context.Background(), form.NewValuesEvent(nil), func(context.Context, form.Data) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	if err := accepting.HandleSubmit(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error for nil event")
	}
}

type brokenEvent struct {
	err       error
	prevented bool
}

func (e *brokenEvent) PreventDefault() { e.prevented = true }
func (e *brokenEvent) FormData() (form.FormData, error) { return nil, e.err }

func TestHandleSubmit_EventErrorReturnedUnchanged(t *testing.T) {
	boom := errors.New("body too large")
	f := form.New[form.Data](nil)
	f.SetError("email", "taken")

	event := &brokenEvent{err: boom}
	called := false
	err := f.HandleSubmit(context.Background(), event, func(context.Context, form.Data) error {
		called = true
		return nil
	})
	if err != boom {
		t.Fatalf("expected the event error itself, got %v", err)
	}
	if called {
		t.Fatalf("submit callback must not run when the event fails")
	}
	if !event.prevented {
		t.Fatalf("expected PreventDefault before reading the event")
	}
	if diff := cmp.Diff(form.FormErrors{"email": {Message: "taken"}}, f.Errors()); diff != "" {
		t.Fatalf("errors must be untouched (-want +got):\n%s", diff)
	}

	err = f.HandleSubmit(context.Background(), form.NewRequestEvent(nil), nil)
	if !errors.Is(err, form.ErrNoRequest) {
		t.Fatalf("expected ErrNoRequest, got %v", err)
	}
}

func TestHandleSubmit_NonDecimalNumberIsFieldError(t *testing.T) {
	v, err := schema.ParseOpenAPI([]byte(`{"type":"object","properties":{"age":{"type":"integer"}}}`))
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}

	for _, raw := range []string{"nan", "Inf", "-Infinity", "1_000"} {
		t.Run(raw, func(t *testing.T) {
			f := form.New[form.Data](v)
			err := f.HandleSubmit(context.Background(), form.NewValuesEvent(url.Values{"age": {raw}}), nil)
			if !errors.Is(err, form.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if _, ok := f.Error("age"); !ok {
				t.Fatalf("expected an age error, got %v", f.Errors())
			}
			if f.IsSubmitting() {
				t.Fatalf("expected submitting to reset")
			}
		})
	}
}

func TestHandleSubmit_DropsHiddenFields(t *testing.T) {
	var seen map[string]any
	validator := schema.ValidatorFunc(func(_ context.Context, data map[string]any) ([]schema.Issue, error) {
		seen = data
		return nil, nil
	})
	f := form.New[form.Data](validator, form.WithHiddenFields("_csrf", " "))

	err := f.HandleSubmit(context.Background(), form.NewValuesEvent(url.Values{"_csrf": {"t"}, "name": {"ada"}}), nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "ada"}, seen); diff != "" {
		t.Fatalf("validated data mismatch (-want +got):\n%s", diff)
	}
}

func TestRegister_ChangeClearsOnlyThatField(t *testing.T) {
	f := form.New[form.Data](nil)
	f.SetError("email", "invalid")
	f.SetError("name", "required")

	reg := f.Register("email")
	if reg.Name != "email" {
		t.Fatalf("unexpected registration name %q", reg.Name)
	}
	reg.OnChange()

	want := form.FormErrors{"name": {Message: "required"}}
	if diff := cmp.Diff(want, f.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestRegister_WasChangedStaysTrue(t *testing.T) {
	f := form.New[form.Data](nil)
	if f.WasChanged() {
		t.Fatalf("fresh form must not be changed")
	}

	name := f.Register("name")
	name.OnChange()
	if !f.WasChanged() {
		t.Fatalf("expected changed after first change")
	}
	name.OnChange()
	f.Register("email").OnChange()
	if !f.WasChanged() {
		t.Fatalf("expected changed to stay true")
	}
}

func TestSetError_OverridesValidationState(t *testing.T) {
	f := form.New[form.Data](rejectField("x", "schema says no"))
	_ = f.HandleSubmit(context.Background(), form.NewValuesEvent(url.Values{"x": {"1"}}), nil)

	f.SetError("x", "m")
	got, ok := f.Error("x")
	if !ok || got.Message != "m" {
		t.Fatalf("expected manual error, got %+v (ok=%v)", got, ok)
	}

	f.SetError("y", "m")
	if msg := f.Errors().Message("y"); msg != "m" {
		t.Fatalf("expected manual error on fresh field, got %q", msg)
	}
}

func TestSubscribe_PublishesStateChanges(t *testing.T) {
	f := form.New[form.Data](rejectField("email", "invalid"))

	var states []form.State
	unsubscribe := f.Subscribe(func(s form.State) {
		states = append(states, s)
	})

	_ = f.HandleSubmit(context.Background(), form.NewValuesEvent(url.Values{"email": {"x"}}), nil)
	f.Register("email").OnChange()
	f.Register("email").OnChange()

	want := []form.State{
		{Errors: form.FormErrors{}, Submitting: true},
		{Errors: form.FormErrors{"email": {Message: "invalid"}}},
		{Errors: form.FormErrors{}, WasChanged: true},
	}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Fatalf("published states mismatch (-want +got):\n%s", diff)
	}

	unsubscribe()
	unsubscribe()
	f.SetError("email", "again")
	if len(states) != len(want) {
		t.Fatalf("listener called after unsubscribe")
	}
}

func TestReset(t *testing.T) {
	f := form.New[form.Data](nil)
	f.SetError("email", "invalid")
	f.SetSubmitting(true)
	f.SetWasChanged(true)

	f.Reset()

	want := form.State{Errors: form.FormErrors{}}
	if diff := cmp.Diff(want, f.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if f.HasErrors() {
		t.Fatalf("expected no errors after reset")
	}
}

type profile struct {
	Name       string   `json:"name"`
	Age        int      `json:"age"`
	Tags       []string `json:"tags"`
	Newsletter bool     `json:"newsletter"`
}

func TestHandleSubmit_DecodesStructs(t *testing.T) {
	f := form.New[profile](nil)

	var got profile
	event := form.NewValuesEvent(url.Values{
		"name":       {"ada"},
		"age":        {"36"},
		"tags":       {"go"},
		"newsletter": {"on"},
	})
	err := f.HandleSubmit(context.Background(), event, func(_ context.Context, p profile) error {
		got = p
		return nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := profile{Name: "ada", Age: 36, Tags: []string{"go"}, Newsletter: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded profile mismatch (-want +got):\n%s", diff)
	}
}

func TestWithDecoder(t *testing.T) {
	f := form.New[string](nil, form.WithDecoder(func(data form.Data, out *string) error {
		*out = data.String("name")
		return nil
	}))

	var got string
	err := f.HandleSubmit(context.Background(), form.NewValuesEvent(url.Values{"name": {"ada"}}), func(_ context.Context, name string) error {
		got = name
		return nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got != "ada" {
		t.Fatalf("expected custom decoder output, got %q", got)
	}
}

func TestData_Accessors(t *testing.T) {
	data := form.Data{"name": "ada", "tags": []any{"go", "zig"}}

	if data.String("name") != "ada" || data.String("tags") != "" {
		t.Fatalf("unexpected String results")
	}
	if diff := cmp.Diff([]string{"go", "zig"}, data.Strings("tags")); diff != "" {
		t.Fatalf("strings mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ada"}, data.Strings("name")); diff != "" {
		t.Fatalf("strings mismatch (-want +got):\n%s", diff)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &form.ValidationError{Errors: form.FormErrors{"b": {Message: "two"}, "a": {Message: "one"}}}
	want := "form: invalid submission (a: one; b: two)"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
