package render

import (
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/matheuspbmarques/go-useform/pkg/form"
)

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

// SanitizeMessage strips markup from an error message and returns plain text.
// Server payloads and SetError callers may hand over HTML that must display as
// plain text.
func SanitizeMessage(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	messagePolicyOnce.Do(func() {
		messagePolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(messagePolicy.Sanitize(trimmed)))
}

// FuncMap exposes form errors to html/template:
//
//	{{ if hasError "email" }}<p class="error">{{ fieldError "email" }}</p>{{ end }}
//
// fieldError returns the sanitized message; html/template escapes the rest.
func FuncMap(errs form.FormErrors) template.FuncMap {
	return template.FuncMap{
		"hasError": func(name string) bool {
			_, ok := errs[name]
			return ok
		},
		"fieldError": func(name string) string {
			return SanitizeMessage(errs.Message(name))
		},
		"formErrors": func() []string {
			var out []string
			if msg := SanitizeMessage(errs.Message("")); msg != "" {
				out = append(out, msg)
			}
			return out
		},
	}
}

// ErrorMessages flattens errs into sanitized name -> message pairs, the shape
// template engines that serialize their context (pongo2, go-template) expect.
func ErrorMessages(errs form.FormErrors) map[string]any {
	out := make(map[string]any, len(errs))
	for name, fieldErr := range errs {
		if msg := SanitizeMessage(fieldErr.Message); msg != "" {
			out[name] = msg
		}
	}
	return out
}

// TemplateFuncs returns hasError and fieldError for engines that register
// global functions, such as go-template's WithTemplateFunc. Both take the
// errors as their first argument:
//
//	{% if hasError(errors, "email") %}{{ fieldError(errors, "email") }}{% endif %}
//
// errors may be FormErrors or the map built by ErrorMessages.
func TemplateFuncs() map[string]any {
	return map[string]any{
		"hasError": func(errs any, name string) bool {
			return lookupMessage(errs, name) != ""
		},
		"fieldError": func(errs any, name string) string {
			return lookupMessage(errs, name)
		},
	}
}

func lookupMessage(errs any, name string) string {
	switch typed := errs.(type) {
	case form.FormErrors:
		return SanitizeMessage(typed.Message(name))
	case map[string]any:
		switch value := typed[name].(type) {
		case string:
			return SanitizeMessage(value)
		case map[string]any:
			msg, _ := value["message"].(string)
			return SanitizeMessage(msg)
		case form.FieldError:
			return SanitizeMessage(value.Message)
		}
	}
	return ""
}
