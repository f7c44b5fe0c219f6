// Package form binds submitted values, change tracking and validation errors
// for a single form instance.
//
// A Form is created per rendered form. Register returns the change handler
// that clears a field's stale error, HandleSubmit collects the submitted
// entries, validates them through a schema.Validator and either records
// per-field errors or hands the decoded value to the caller. State changes are
// published synchronously to subscribers so a host can re-render.
//
//	f := form.New[Signup](schema.MustReflect[Signup]())
//	err := f.HandleSubmit(ctx, form.NewRequestEvent(r), func(ctx context.Context, s Signup) error {
//		return users.Create(ctx, s)
//	})
//	if errors.Is(err, form.ErrInvalid) {
//		// re-render with f.Errors()
//	}
package form
