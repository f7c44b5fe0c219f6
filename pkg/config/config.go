// Package config loads the YAML form definitions used by useform-cli.
//
//	source: ./openapi.yaml
//	operation: createUser
//	max_attempts: 3
//	hidden: [_csrf]
//	fields:
//	  - name: email
//	    label: Email address
//	    order: 1
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultMaxAttempts is used when max_attempts is omitted.
const DefaultMaxAttempts = 3

// Config describes which schema drives the form and how fields are prompted.
type Config struct {
	Source      string        `yaml:"source"`
	Operation   string        `yaml:"operation,omitempty"`
	Component   string        `yaml:"component,omitempty"`
	MediaType   string        `yaml:"media_type,omitempty"`
	MaxAttempts int           `yaml:"max_attempts,omitempty"`
	Hidden      []string      `yaml:"hidden,omitempty"`
	Fields      []FieldConfig `yaml:"fields,omitempty"`
}

// FieldConfig overrides the prompt derived from the schema for one field.
type FieldConfig struct {
	Name   string `yaml:"name"`
	Label  string `yaml:"label,omitempty"`
	Help   string `yaml:"help,omitempty"`
	Secret bool   `yaml:"secret,omitempty"`
	Skip   bool   `yaml:"skip,omitempty"`
	Order  int    `yaml:"order,omitempty"`
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies defaults and validates the result.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.Source = strings.TrimSpace(c.Source)
	c.Operation = strings.TrimSpace(c.Operation)
	c.Component = strings.TrimSpace(c.Component)
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
}

// Validate reports missing or conflicting settings.
func (c Config) Validate() error {
	var errs []error
	if c.Source == "" {
		errs = append(errs, errors.New("config: source is required"))
	}
	if c.Operation == "" && c.Component == "" {
		errs = append(errs, errors.New("config: operation or component is required"))
	}
	if c.Operation != "" && c.Component != "" {
		errs = append(errs, errors.New("config: operation and component are mutually exclusive"))
	}
	seen := make(map[string]struct{}, len(c.Fields))
	for i, field := range c.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("config: fields[%d]: name is required", i))
			continue
		}
		if _, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("config: fields[%d]: duplicate field %q", i, name))
		}
		seen[name] = struct{}{}
	}
	return errors.Join(errs...)
}

// Field returns the override for name.
func (c Config) Field(name string) (FieldConfig, bool) {
	for _, field := range c.Fields {
		if strings.TrimSpace(field.Name) == name {
			return field, true
		}
	}
	return FieldConfig{}, false
}

// Order sorts names by their configured order. Unconfigured names keep their
// relative position after the ordered ones.
func (c Config) Order(names []string) []string {
	out := append([]string(nil), names...)
	rank := func(name string) int {
		if field, ok := c.Field(name); ok && field.Order > 0 {
			return field.Order
		}
		return int(^uint(0) >> 1)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i]) < rank(out[j])
	})
	return out
}
