package form

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"sort"
)

// Event is a form submission as seen by HandleSubmit.
type Event interface {
	// PreventDefault suppresses whatever the host would do with the
	// submission on its own.
	PreventDefault()
	// FormData snapshots the submitted entries.
	FormData() (FormData, error)
}

// ValuesEvent is an Event over an in-memory set of entries.
type ValuesEvent struct {
	entries   FormData
	prevented bool
}

// NewValuesEvent builds an event from url.Values. Names are emitted in sorted
// order; values keep their order.
func NewValuesEvent(values url.Values) *ValuesEvent {
	return &ValuesEvent{entries: entriesFromValues(values)}
}

// NewEntriesEvent builds an event that submits entries exactly as given.
func NewEntriesEvent(entries ...Entry) *ValuesEvent {
	return &ValuesEvent{entries: append(FormData(nil), entries...)}
}

func (e *ValuesEvent) PreventDefault() { e.prevented = true }

// Prevented reports whether PreventDefault was called.
func (e *ValuesEvent) Prevented() bool { return e.prevented }

func (e *ValuesEvent) FormData() (FormData, error) {
	return append(FormData(nil), e.entries...), nil
}

// DefaultMaxMemory bounds the in-memory part of multipart bodies.
const DefaultMaxMemory = 32 << 20

// RequestEvent adapts an *http.Request. URL-encoded and multipart bodies are
// supported; GET and HEAD requests read the query string.
type RequestEvent struct {
	request   *http.Request
	maxMemory int64
	prevented bool
}

// RequestOption configures a RequestEvent.
type RequestOption func(*RequestEvent)

// WithMaxMemory overrides DefaultMaxMemory for multipart parsing.
func WithMaxMemory(n int64) RequestOption {
	return func(e *RequestEvent) {
		if n > 0 {
			e.maxMemory = n
		}
	}
}

// NewRequestEvent wraps r.
func NewRequestEvent(r *http.Request, opts ...RequestOption) *RequestEvent {
	e := &RequestEvent{request: r, maxMemory: DefaultMaxMemory}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// PreventDefault only records the call; an HTTP request has no default
// action left to suppress once it reaches a handler.
func (e *RequestEvent) PreventDefault() { e.prevented = true }

// Prevented reports whether PreventDefault was called.
func (e *RequestEvent) Prevented() bool { return e.prevented }

func (e *RequestEvent) FormData() (FormData, error) {
	r := e.request
	if r == nil {
		return nil, ErrNoRequest
	}

	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return entriesFromValues(r.URL.Query()), nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(e.maxMemory); err != nil {
			return nil, fmt.Errorf("form: parse multipart body: %w", err)
		}
		entries := entriesFromValues(r.MultipartForm.Value)
		names := make([]string, 0, len(r.MultipartForm.File))
		for name := range r.MultipartForm.File {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			for _, header := range r.MultipartForm.File[name] {
				entries.Add(name, header)
			}
		}
		return entries, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("form: parse body: %w", err)
	}
	return entriesFromValues(r.PostForm), nil
}

func entriesFromValues(values url.Values) FormData {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var entries FormData
	for _, name := range names {
		for _, value := range values[name] {
			entries.Add(name, value)
		}
	}
	return entries
}
