package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/matheuspbmarques/go-useform/internal/loader"
)

var (
	// ErrOperationNotFound is returned when a document has no operation with
	// the requested operationId.
	ErrOperationNotFound = errors.New("schema: operation not found")
	// ErrComponentNotFound is returned when components/schemas lacks the
	// requested name.
	ErrComponentNotFound = errors.New("schema: component not found")
	// ErrNoRequestBody is returned when the selected operation has no request
	// body schema.
	ErrNoRequestBody = errors.New("schema: operation has no request body schema")
)

// Document wraps a raw schema payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// LoadOption configures Load.
type LoadOption func(*loader.Options)

// WithFileSystem resolves fs sources against files.
func WithFileSystem(files fs.FS) LoadOption {
	return func(opts *loader.Options) {
		opts.FileSystem = files
	}
}

// WithHTTPClient enables URL sources using client.
func WithHTTPClient(client *http.Client) LoadOption {
	return func(opts *loader.Options) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables URL sources using a default client with the given
// timeout.
func WithHTTPFallback(timeout time.Duration) LoadOption {
	return func(opts *loader.Options) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// Load reads the document behind src.
func Load(ctx context.Context, src Source, opts ...LoadOption) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is nil")
	}

	var options loader.Options
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	l := loader.New(options)

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = l.File(ctx, src.Location())
	case SourceKindFS:
		data, err = l.FS(ctx, src.Location())
	case SourceKindURL:
		data, err = l.HTTP(ctx, src.Location())
	default:
		err = fmt.Errorf("schema: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return Document{}, fmt.Errorf("schema: load %s: %w", src.Location(), err)
	}
	return NewDocument(src, data)
}

// Target selects the schema inside an OpenAPI document. Operation wins when
// both fields are set.
type Target struct {
	Operation string
	Component string
	// MediaType prefers a specific request body content type.
	MediaType string
}

var formMediaTypes = []string{
	"application/x-www-form-urlencoded",
	"multipart/form-data",
	"application/json",
}

// FromDocument parses an OpenAPI document and builds a validator for the
// schema selected by target.
func FromDocument(ctx context.Context, doc Document, target Target, opts ...OpenAPIOption) (*OpenAPI, error) {
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("schema: document payload is empty")
	}

	l := &openapi3.Loader{Context: ctx}
	spec, err := l.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: load openapi document: %w", err)
	}

	var selected *openapi3.Schema
	switch {
	case strings.TrimSpace(target.Operation) != "":
		selected, err = operationSchema(spec, strings.TrimSpace(target.Operation), target.MediaType)
	case strings.TrimSpace(target.Component) != "":
		selected, err = componentSchema(spec, strings.TrimSpace(target.Component))
	default:
		err = errors.New("schema: target requires an operation or component")
	}
	if err != nil {
		return nil, err
	}
	return NewOpenAPI(selected, opts...)
}

func operationSchema(spec *openapi3.T, operationID, mediaType string) (*openapi3.Schema, error) {
	if spec.Paths == nil {
		return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op == nil || op.OperationID != operationID {
				continue
			}
			if op.RequestBody == nil || op.RequestBody.Value == nil {
				return nil, fmt.Errorf("%w: %s", ErrNoRequestBody, operationID)
			}
			if s := requestSchema(op.RequestBody.Value.Content, mediaType); s != nil {
				return s, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrNoRequestBody, operationID)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
}

func requestSchema(content openapi3.Content, preferred string) *openapi3.Schema {
	candidates := formMediaTypes
	if preferred = strings.TrimSpace(preferred); preferred != "" {
		candidates = append([]string{preferred}, formMediaTypes...)
	}
	for _, mediaType := range candidates {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}

	names := make([]string, 0, len(content))
	for name := range content {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if mt := content[name]; mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func componentSchema(spec *openapi3.T, name string) (*openapi3.Schema, error) {
	if spec.Components == nil || spec.Components.Schemas == nil {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, name)
	}
	ref := spec.Components.Schemas[name]
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, name)
	}
	return ref.Value, nil
}

// ParseOpenAPI builds a validator from a standalone schema object encoded as
// JSON or YAML.
func ParseOpenAPI(raw []byte, opts ...OpenAPIOption) (*OpenAPI, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("schema: schema payload is empty")
	}

	payload := trimmed
	if trimmed[0] != '{' {
		var decoded map[string]any
		if err := yaml.Unmarshal(trimmed, &decoded); err != nil {
			return nil, fmt.Errorf("schema: decode yaml schema: %w", err)
		}
		converted, err := json.Marshal(decoded)
		if err != nil {
			return nil, fmt.Errorf("schema: convert yaml schema: %w", err)
		}
		payload = converted
	}

	s, err := decodeSchemaJSON(payload)
	if err != nil {
		return nil, err
	}
	return NewOpenAPI(s, opts...)
}

// decodeSchemaJSON drops JSON Schema dialect keywords that have no OpenAPI
// counterpart before handing the payload to kin-openapi.
func decodeSchemaJSON(raw []byte) (*openapi3.Schema, error) {
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("schema: decode schema: %w", err)
	}
	delete(generic, "$schema")
	delete(generic, "$id")

	cleaned, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("schema: encode schema: %w", err)
	}

	s := openapi3.NewSchema()
	if err := json.Unmarshal(cleaned, s); err != nil {
		return nil, fmt.Errorf("schema: decode openapi schema: %w", err)
	}
	return s, nil
}
