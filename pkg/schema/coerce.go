package schema

import (
	"math"
	"mime/multipart"
	"regexp"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

func coerceObject(s *openapi3.Schema, data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	required := make(map[string]struct{}, len(s.Required))
	for _, name := range s.Required {
		required[name] = struct{}{}
	}

	for name, raw := range data {
		prop := propertySchema(s, name)
		if prop == nil {
			out[name] = plainValue(raw)
			continue
		}
		_, isRequired := required[name]
		if value, keep := coerceValue(prop, raw, isRequired); keep {
			out[name] = value
		}
	}
	return out
}

func coerceValue(s *openapi3.Schema, raw any, required bool) (any, bool) {
	if hasType(s, openapi3.TypeArray) {
		var items *openapi3.Schema
		if s.Items != nil {
			items = s.Items.Value
		}
		list, ok := raw.([]any)
		if !ok {
			list = []any{raw}
		}
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = coerceScalar(items, item)
		}
		return out, true
	}

	if list, ok := raw.([]any); ok {
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = coerceScalar(s, item)
		}
		return out, true
	}

	if str, ok := raw.(string); ok && str == "" && !required && s.Type != nil && !hasType(s, openapi3.TypeString) {
		return nil, false
	}
	return coerceScalar(s, raw), true
}

func coerceScalar(s *openapi3.Schema, raw any) any {
	str, ok := raw.(string)
	if !ok {
		return plainValue(raw)
	}
	if s == nil {
		return str
	}

	trimmed := strings.TrimSpace(str)
	switch {
	case hasType(s, openapi3.TypeInteger), hasType(s, openapi3.TypeNumber):
		if number, ok := parseNumber(trimmed); ok {
			return number
		}
	case hasType(s, openapi3.TypeBoolean):
		if value, ok := parseBool(trimmed); ok {
			return value
		}
	}
	return str
}

func plainObject(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for name, value := range data {
		out[name] = plainValue(value)
	}
	return out
}

// plainValue swaps upload headers for their file names; kin-openapi only
// understands JSON-compatible values.
func plainValue(raw any) any {
	switch typed := raw.(type) {
	case *multipart.FileHeader:
		if typed == nil {
			return nil
		}
		return typed.Filename
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = plainValue(item)
		}
		return out
	default:
		return raw
	}
}

func propertySchema(s *openapi3.Schema, name string) *openapi3.Schema {
	if s == nil || s.Properties == nil {
		return nil
	}
	ref := s.Properties[name]
	if ref == nil {
		return nil
	}
	return ref.Value
}

func hasType(s *openapi3.Schema, typ string) bool {
	if s == nil || s.Type == nil {
		return false
	}
	for _, candidate := range *s.Type {
		if candidate == typ {
			return true
		}
	}
	return false
}

// decimalPattern rejects the extra syntax strconv accepts (NaN, Inf, hex
// floats, underscores); JSON numbers allow none of it.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// parseNumber returns false for anything that is not a finite decimal, leaving
// the raw string for the schema to reject as a type mismatch.
func parseNumber(raw string) (float64, bool) {
	if !decimalPattern.MatchString(raw) {
		return 0, false
	}
	number, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}
	return number, true
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "on", "yes", "true", "1", "checked":
		return true, true
	case "off", "no", "false", "0":
		return false, true
	default:
		return false, false
	}
}
