// Package schema generates JSON Schema documents from the Go structs
// behind the service's YAML configuration files, so editors can
// validate the files against the shape the loader expects.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const (
	draft    = "https://json-schema.org/draft/2020-12/schema"
	idPrefix = "https://schemas.camphaven.dev/searchsync"
)

// JSONSchema is one schema node: the root document or a nested
// property.
type JSONSchema struct {
	Schema      string                 `json:"$schema,omitempty"`
	ID          string                 `json:"$id,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	Type        string                 `json:"type"`
	Required    []string               `json:"required,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Items       *JSONSchema            `json:"items,omitempty"`
	Enum        []any                  `json:"enum,omitempty"`
	Default     any                    `json:"default,omitempty"`
	Pattern     string                 `json:"pattern,omitempty"`
	Minimum     *int                   `json:"minimum,omitempty"`
	MinLength   *int                   `json:"minLength,omitempty"`
	MaxLength   *int                   `json:"maxLength,omitempty"`
	MinItems    *int                   `json:"minItems,omitempty"`
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateJSONSchema renders the schema for v's type as indented JSON.
func (g *Generator) GenerateJSONSchema(v any) (string, error) {
	schema, err := g.GenerateSchema(reflect.TypeOf(v))
	if err != nil {
		return "", err
	}

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}
	return string(out), nil
}

func (g *Generator) GenerateSchema(t reflect.Type) (*JSONSchema, error) {
	schema, err := g.schemaFor(t)
	if err != nil {
		return nil, err
	}

	schema.Schema = draft
	schema.Title = t.Name()
	schema.ID = fmt.Sprintf("%s/%s", idPrefix, strings.ToLower(t.Name()))
	return schema, nil
}

func (g *Generator) schemaFor(t reflect.Type) (*JSONSchema, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		return g.structSchema(t)
	case reflect.Slice:
		items, err := g.schemaFor(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema for array items: %w", err)
		}
		return &JSONSchema{Type: "array", Items: items}, nil
	case reflect.String:
		return &JSONSchema{Type: "string"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &JSONSchema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &JSONSchema{Type: "number"}, nil
	case reflect.Bool:
		return &JSONSchema{Type: "boolean"}, nil
	default:
		return nil, fmt.Errorf("unsupported type kind %s", t.Kind())
	}
}

func (g *Generator) structSchema(t reflect.Type) (*JSONSchema, error) {
	schema := &JSONSchema{
		Type:       "object",
		Properties: make(map[string]*JSONSchema),
	}

	var required []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := fieldName(field)
		if name == "" {
			continue
		}

		fieldSchema, err := g.schemaFor(field.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema for field %s: %w", field.Name, err)
		}

		if desc := field.Tag.Get("description"); desc != "" {
			fieldSchema.Description = desc
		}
		applySchemaTag(field.Tag.Get("schema"), fieldSchema)

		schema.Properties[name] = fieldSchema
		if strings.Contains(field.Tag.Get("schema"), "required") {
			required = append(required, name)
		}
	}

	schema.Required = required
	return schema, nil
}

// fieldName resolves the property name from the yaml tag, since the
// generated schemas describe YAML documents; the json tag and a
// lower-camel fallback cover types without one.
func fieldName(field reflect.StructField) string {
	for _, key := range []string{"yaml", "json"} {
		tag := field.Tag.Get(key)
		if tag == "" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return strings.ToLower(field.Name[:1]) + field.Name[1:]
}

func applySchemaTag(tag string, schema *JSONSchema) {
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)

		switch {
		case strings.HasPrefix(part, "enum="):
			for _, e := range strings.Split(strings.TrimPrefix(part, "enum="), "|") {
				schema.Enum = append(schema.Enum, e)
			}
		case strings.HasPrefix(part, "default="):
			raw := strings.TrimPrefix(part, "default=")
			if schema.Type == "integer" {
				if n, err := strconv.Atoi(raw); err == nil {
					schema.Default = n
					continue
				}
			}
			schema.Default = raw
		case strings.HasPrefix(part, "pattern="):
			schema.Pattern = strings.TrimPrefix(part, "pattern=")
		case strings.HasPrefix(part, "minimum="):
			if n, err := strconv.Atoi(strings.TrimPrefix(part, "minimum=")); err == nil {
				schema.Minimum = &n
			}
		case strings.HasPrefix(part, "minLength="):
			if n, err := strconv.Atoi(strings.TrimPrefix(part, "minLength=")); err == nil {
				schema.MinLength = &n
			}
		case strings.HasPrefix(part, "maxLength="):
			if n, err := strconv.Atoi(strings.TrimPrefix(part, "maxLength=")); err == nil {
				schema.MaxLength = &n
			}
		case strings.HasPrefix(part, "minItems="):
			if n, err := strconv.Atoi(strings.TrimPrefix(part, "minItems=")); err == nil {
				schema.MinItems = &n
			}
		}
	}
}
