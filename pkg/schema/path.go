package schema

import "strings"

// ParsePath splits JSON pointers ("/owner/email", "#/owner"), dotted paths
// ("owner.email", "$.owner") and bracketed indices ("tags[0]") into segments.
func ParsePath(path string) []string {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return nil
	}

	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$/")
	clean = strings.TrimPrefix(clean, "$.")
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimLeft(clean, "#/.$")
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		out = append(out, unescapePointer(segment))
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func unescapePointer(segment string) string {
	segment = strings.ReplaceAll(segment, "~1", "/")
	return strings.ReplaceAll(segment, "~0", "~")
}
