package schema

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// Property summarises a top-level schema property for hosts that build their
// own inputs, such as terminal prompts.
type Property struct {
	Name        string
	Type        string
	Format      string
	Title       string
	Description string
	Required    bool
	Enum        []string
	ItemType    string
	Default     any
}

// Multiple reports whether the property accepts several submitted values.
func (p Property) Multiple() bool {
	return p.Type == openapi3.TypeArray
}

// Properties lists top-level properties sorted by name.
func (v *OpenAPI) Properties() []Property {
	if v == nil || v.schema == nil || len(v.schema.Properties) == 0 {
		return nil
	}

	required := make(map[string]struct{}, len(v.schema.Required))
	for _, name := range v.schema.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(v.schema.Properties))
	for name := range v.schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Property, 0, len(names))
	for _, name := range names {
		ref := v.schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		_, isRequired := required[name]
		p := Property{
			Name:        name,
			Type:        firstType(prop),
			Format:      prop.Format,
			Title:       prop.Title,
			Description: prop.Description,
			Required:    isRequired,
			Enum:        enumStrings(prop.Enum),
			Default:     prop.Default,
		}
		if p.Type == openapi3.TypeArray && prop.Items != nil && prop.Items.Value != nil {
			p.ItemType = firstType(prop.Items.Value)
			if len(p.Enum) == 0 {
				p.Enum = enumStrings(prop.Items.Value.Enum)
			}
		}
		out = append(out, p)
	}
	return out
}

func firstType(s *openapi3.Schema) string {
	if s == nil || s.Type == nil || len(*s.Type) == 0 {
		return ""
	}
	return (*s.Type)[0]
}

func enumStrings(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, fmt.Sprint(value))
	}
	return out
}
