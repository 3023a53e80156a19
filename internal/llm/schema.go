package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Veraticus/radstage/internal/common"
	"github.com/Veraticus/radstage/internal/model"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// EnumProperty is a required string property restricted to Values.
type EnumProperty struct {
	Name   string
	Values []string
}

// ResponseSchema constrains a response to a named JSON object of enum properties.
type ResponseSchema struct {
	Name       string
	Properties []EnumProperty
	// Strict forbids undeclared properties.
	Strict bool
}

// LabelSchema is the strict t/n/m staging schema.
func LabelSchema() *ResponseSchema {
	names := model.LabelNames()
	return &ResponseSchema{
		Name: "tnm_staging",
		Properties: []EnumProperty{
			{Name: model.FieldT, Values: names[model.FieldT]},
			{Name: model.FieldN, Values: names[model.FieldN]},
			{Name: model.FieldM, Values: names[model.FieldM]},
		},
		Strict: true,
	}
}

// RequiredNames lists property names in declaration order.
func (s *ResponseSchema) RequiredNames() []string {
	names := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		names = append(names, p.Name)
	}
	return names
}

// PropertiesSchema renders the "properties" member of the JSON Schema.
func (s *ResponseSchema) PropertiesSchema() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for _, p := range s.Properties {
		props[p.Name] = map[string]any{
			"type": "string",
			"enum": append([]string(nil), p.Values...),
		}
	}
	return props
}

// JSONSchema renders the schema as a JSON Schema object.
func (s *ResponseSchema) JSONSchema() map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": s.PropertiesSchema(),
		"required":   s.RequiredNames(),
	}
	if s.Strict {
		schema["additionalProperties"] = false
	}
	return schema
}

// Validate checks a raw payload against the schema.
func (s *ResponseSchema) Validate(raw string) error {
	schemaBytes, err := json.Marshal(s.JSONSchema())
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	url := s.Name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(schemaBytes)); err != nil {
		return fmt.Errorf("failed to load schema: %w", err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	var payload any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return fmt.Errorf("%w: response is not valid JSON: %w", common.ErrSchemaDecode, err)
	}
	if err := compiled.Validate(payload); err != nil {
		return fmt.Errorf("%w: %w", common.ErrSchemaDecode, err)
	}
	return nil
}
