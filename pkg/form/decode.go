package form

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// DecodeFunc converts parsed submission data into the form's value type.
type DecodeFunc[T any] func(data Data, out *T) error

// Decode converts data into out. Data and map[string]any targets receive the
// parsed map unchanged; anything else is decoded by mapstructure using json
// tags with weak typing, so "42" fills an int and a single value fills a
// slice.
func Decode[T any](data Data, out *T) error {
	switch target := any(out).(type) {
	case *Data:
		*target = data
		return nil
	case *map[string]any:
		*target = map[string]any(data)
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       checkboxHook,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("form: build decoder: %w", err)
	}
	return decoder.Decode(map[string]any(data))
}

// checkboxHook maps the values browsers send for checked boxes onto bool.
func checkboxHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	switch strings.ToLower(strings.TrimSpace(reflect.ValueOf(data).String())) {
	case "on", "yes", "checked":
		return true, nil
	case "off", "no", "":
		return false, nil
	default:
		return data, nil
	}
}
