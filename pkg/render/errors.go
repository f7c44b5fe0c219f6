package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/matheuspbmarques/go-useform/pkg/schema"
)

// ErrorMapping splits a server error payload into field-level and form-level
// messages keyed by the form's field names.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// ErrorSetter receives mapped field errors. *form.Form satisfies it.
type ErrorSetter interface {
	SetError(name, message string)
}

// MergeFormErrors concatenates and normalises form-level error slices,
// trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload normalises server error payloads (go-errors style JSON
// pointers, dotted or bracketed paths, request wrappers such as "body") onto
// the given field names. Paths that match no field become form-level errors
// so messages are not lost.
func MapErrorPayload(fields []string, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	known := make(map[string]struct{}, len(fields))
	for _, name := range fields {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			known[trimmed] = struct{}{}
		}
	}

	paths := make([]string, 0, len(payload))
	for path := range payload {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, rawPath := range paths {
		messages := normalizeMessages(payload[rawPath])
		if len(messages) == 0 {
			continue
		}

		field, ok := mapErrorPath(rawPath, known)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[field] = append(mapping.Fields[field], messages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// ApplyErrorPayload maps payload onto fields and records every field error on
// setter, joining multiple messages with "; ". Form-level messages are
// returned for the caller to display.
func ApplyErrorPayload(setter ErrorSetter, fields []string, payload map[string][]string) []string {
	mapping := MapErrorPayload(fields, payload)
	names := make([]string, 0, len(mapping.Fields))
	for name := range mapping.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		setter.SetError(name, strings.Join(mapping.Fields[name], "; "))
	}
	return mapping.Form
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, known map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	segments := schema.ParsePath(raw)
	if len(segments) == 0 {
		return "", false
	}

	best := ""
	for _, variant := range segmentVariants(segments) {
		path := longestMatchingPath(variant, known)
		if path == "" {
			continue
		}
		if best == "" || strings.Count(path, ".") > strings.Count(best, ".") {
			best = path
		}
	}
	return best, best != ""
}

func segmentVariants(segments []string) [][]string {
	var variants [][]string
	seen := make(map[string]struct{}, 4)

	add := func(candidate []string) {
		if len(candidate) == 0 {
			return
		}
		key := strings.Join(candidate, ".")
		if _, exists := seen[key]; exists {
			return
		}
		seen[key] = struct{}{}
		variants = append(variants, append([]string(nil), candidate...))
	}

	unwrapped := dropWrapperSegments(segments)
	add(segments)
	add(unwrapped)
	add(stripNumericSegments(segments))
	add(stripNumericSegments(unwrapped))
	return variants
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestMatchingPath(segments []string, known map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := known[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
