package form

// Entry is a single submitted name/value pair. Value is a string for regular
// inputs and a *multipart.FileHeader for uploads.
type Entry struct {
	Name  string
	Value any
}

// FormData is the ordered list of submitted entries. A name appears once per
// submitted value.
type FormData []Entry

// Add appends an entry.
func (d *FormData) Add(name string, value any) {
	*d = append(*d, Entry{Name: name, Value: value})
}

// Keys returns distinct names in first-seen order.
func (d FormData) Keys() []string {
	seen := make(map[string]struct{}, len(d))
	keys := make([]string, 0, len(d))
	for _, entry := range d {
		if _, ok := seen[entry.Name]; ok {
			continue
		}
		seen[entry.Name] = struct{}{}
		keys = append(keys, entry.Name)
	}
	return keys
}

// GetAll returns every value submitted under name in submission order.
func (d FormData) GetAll(name string) []any {
	var out []any
	for _, entry := range d {
		if entry.Name == name {
			out = append(out, entry.Value)
		}
	}
	return out
}

// Data is the parsed submission: one value per field, or a []any when the
// field was submitted more than once.
type Data map[string]any

// ParseFormData groups entries by name. Single values stay scalar; repeated
// names become a []any in submission order.
func ParseFormData(entries FormData) Data {
	data := make(Data, len(entries))
	for _, name := range entries.Keys() {
		values := entries.GetAll(name)
		if len(values) > 1 {
			data[name] = values
			continue
		}
		data[name] = values[0]
	}
	return data
}

// String returns the value of a scalar string field.
func (d Data) String(name string) string {
	value, _ := d[name].(string)
	return value
}

// Strings returns every string value of a field, whether it was submitted
// once or several times.
func (d Data) Strings(name string) []string {
	switch value := d[name].(type) {
	case string:
		return []string{value}
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}
