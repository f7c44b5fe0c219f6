package render

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
)

// HiddenField is a hidden input rendered alongside the visible fields, such
// as a CSRF token or an optimistic-locking version.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs a hidden field carrying token under name (for
// example "_csrf").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// VersionField constructs a hidden field used for version-aware submissions.
func VersionField(name string, version any) HiddenField {
	return Hidden(name, version)
}

// MergeHiddenFields returns a copy of base with fields applied. Empty names
// are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if name := strings.TrimSpace(field.Name); name != "" {
			out[name] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	clean := MergeHiddenFields(fields)
	if len(clean) == 0 {
		return nil
	}

	names := HiddenNames(clean)
	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: clean[name]})
	}
	return result
}

// HiddenNames returns the sorted names of fields, ready for
// form.WithHiddenFields.
func HiddenNames(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	sort.Strings(names)
	return names
}

// HiddenInputs renders fields as escaped <input type="hidden"> elements.
func HiddenInputs(fields map[string]string) template.HTML {
	var b strings.Builder
	for _, field := range SortedHiddenFields(fields) {
		fmt.Fprintf(&b, `<input type="hidden" name="%s" value="%s">`,
			template.HTMLEscapeString(field.Name),
			template.HTMLEscapeString(field.Value))
	}
	return template.HTML(b.String())
}
