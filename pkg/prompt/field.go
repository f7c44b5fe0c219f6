package prompt

import (
	"fmt"
	"strings"

	"github.com/matheuspbmarques/go-useform/pkg/schema"
)

// Kind selects the prompt used for a field.
type Kind string

const (
	KindInput       Kind = "input"
	KindPassword    Kind = "password"
	KindConfirm     Kind = "confirm"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multiselect"
)

// Field describes one prompted input.
type Field struct {
	Name     string
	Label    string
	Help     string
	Kind     Kind
	Options  []string
	Default  string
	Required bool
	// Multiple accepts several values; text fields take one per line.
	Multiple bool
}

// Message returns the prompt text.
func (f Field) Message() string {
	label := strings.TrimSpace(f.Label)
	if label == "" {
		label = f.Name
	}
	if f.Required {
		label += " *"
	}
	return label
}

// FieldsFromProperties derives prompts from schema properties: enums become
// selects, arrays of enums multi-selects, booleans confirmations and
// `format: password` a masked input.
func FieldsFromProperties(props []schema.Property) []Field {
	fields := make([]Field, 0, len(props))
	for _, prop := range props {
		field := Field{
			Name:     prop.Name,
			Label:    prop.Title,
			Help:     prop.Description,
			Options:  prop.Enum,
			Required: prop.Required,
			Multiple: prop.Multiple(),
		}
		if prop.Default != nil {
			field.Default = fmt.Sprint(prop.Default)
		}

		switch {
		case prop.Type == "boolean":
			field.Kind = KindConfirm
		case prop.Multiple() && len(prop.Enum) > 0:
			field.Kind = KindMultiSelect
		case len(prop.Enum) > 0:
			field.Kind = KindSelect
		case prop.Format == "password":
			field.Kind = KindPassword
		default:
			field.Kind = KindInput
		}
		fields = append(fields, field)
	}
	return fields
}
