package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matheuspbmarques/go-useform/pkg/config"
	"github.com/matheuspbmarques/go-useform/pkg/form"
	"github.com/matheuspbmarques/go-useform/pkg/prompt"
	"github.com/matheuspbmarques/go-useform/pkg/schema"
)

func main() {
	configPath := flag.String("config", "", "YAML form definition (overrides the flags below)")
	source := flag.String("source", "", "OpenAPI document path or URL")
	operation := flag.String("operation", "", "operation ID whose request body drives the form")
	component := flag.String("component", "", "components/schemas entry driving the form")
	format := flag.String("format", "json", "output format: json or yaml")
	attempts := flag.Int("attempts", config.DefaultMaxAttempts, "maximum submission attempts")
	flag.Parse()

	cfg, err := resolveConfig(*configPath, *source, *operation, *component, *attempts)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	src := schema.ParseSource(cfg.Source)
	if src == nil {
		log.Fatalf("invalid source: %q", cfg.Source)
	}
	doc, err := schema.Load(ctx, src, schema.WithHTTPFallback(30*time.Second))
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}
	validator, err := schema.FromDocument(ctx, doc, schema.Target{
		Operation: cfg.Operation,
		Component: cfg.Component,
		MediaType: cfg.MediaType,
	})
	if err != nil {
		log.Fatalf("Failed to select schema: %v", err)
	}

	f := form.New[form.Data](validator, form.WithHiddenFields(cfg.Hidden...))
	fields := applyOverrides(cfg, prompt.FieldsFromProperties(validator.Properties()))

	session := prompt.NewSession(f, fields, prompt.WithMaxAttempts(cfg.MaxAttempts))
	err = session.Run(ctx, func(_ context.Context, data form.Data) error {
		return write(os.Stdout, *format, validator.Coerce(data))
	})
	switch {
	case errors.Is(err, prompt.ErrAborted):
		stop()
		os.Exit(130)
	case err != nil:
		log.Fatalf("Form was not submitted: %v", err)
	}
}

func resolveConfig(path, source, operation, component string, attempts int) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg := config.Config{
		Source:      source,
		Operation:   operation,
		Component:   component,
		MaxAttempts: attempts,
	}
	return cfg, cfg.Validate()
}

func applyOverrides(cfg config.Config, fields []prompt.Field) []prompt.Field {
	byName := make(map[string]prompt.Field, len(fields))
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		override, ok := cfg.Field(field.Name)
		if ok {
			if override.Skip {
				continue
			}
			if override.Label != "" {
				field.Label = override.Label
			}
			if override.Help != "" {
				field.Help = override.Help
			}
			if override.Secret && field.Kind == prompt.KindInput {
				field.Kind = prompt.KindPassword
			}
		}
		byName[field.Name] = field
		names = append(names, field.Name)
	}

	out := make([]prompt.Field, 0, len(names))
	for _, name := range cfg.Order(names) {
		out = append(out, byName[name])
	}
	return out
}

// write prints the submission with the types it was validated as.
func write(w io.Writer, format string, data map[string]any) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(data)
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
