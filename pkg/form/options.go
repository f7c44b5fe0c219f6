package form

import "strings"

type options struct {
	decoder any
	hidden  map[string]struct{}
}

// Option configures a Form.
type Option func(*options)

// WithDecoder replaces the default mapstructure decoder used to turn parsed
// Data into T. The function's type parameter must match the form's.
func WithDecoder[T any](fn DecodeFunc[T]) Option {
	return func(o *options) {
		if fn != nil {
			o.decoder = fn
		}
	}
}

// WithHiddenFields drops the named entries (CSRF tokens, version markers)
// before validation and decoding.
func WithHiddenFields(names ...string) Option {
	return func(o *options) {
		for _, name := range names {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				o.hidden[trimmed] = struct{}{}
			}
		}
	}
}
