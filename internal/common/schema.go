package common

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigSchema returns the JSON-Schema (draft 2020-12 subset) the merged
// configuration must satisfy.
func ConfigSchema() map[string]any {
	nonNegInt := map[string]any{"type": "integer", "minimum": 0}
	return map[string]any{
		"type":     "object",
		"required": []string{"ocr", "llm", "http", "limits", "log"},
		"properties": map[string]any{
			"ocr": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"tesseract":          map[string]any{"type": "string", "minLength": 1},
					"pdftoppm":           map[string]any{"type": "string", "minLength": 1},
					"lang":               map[string]any{"type": "string", "pattern": `^[A-Za-z_]+(\+[A-Za-z_]+)*$`},
					"tessdata_dir":       map[string]any{"type": "string"},
					"dpi":                map[string]any{"type": "integer", "minimum": 72, "maximum": 1200},
					"psm":                map[string]any{"type": "integer", "minimum": 0, "maximum": 13},
					"oem":                map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
					"tsv_confidence":     map[string]any{"type": "boolean"},
					"max_ocr_pages":      nonNegInt,
					"min_embedded_chars": nonNegInt,
					"page_separator":     map[string]any{"type": "string"},
				},
			},
			"llm": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"provider":          map[string]any{"type": "string", "enum": []string{ProviderGemini, ProviderOpenAI}},
					"model":             map[string]any{"type": "string"},
					"temperature":       map[string]any{"type": "number", "minimum": 0.0, "maximum": 2.0},
					"max_output_tokens": map[string]any{"type": "integer", "minimum": 1},
					"base_url":          map[string]any{"type": "string"},
					"max_input_chars":   nonNegInt,
					"timeout":           nonNegInt,
				},
			},
			"http": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"addr":            map[string]any{"type": "string", "minLength": 1},
					"request_timeout": nonNegInt,
				},
			},
			"limits": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"max_upload_bytes": map[string]any{"type": "integer", "minimum": 1},
				},
			},
			"log": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"level":  map[string]any{"type": "string", "enum": []string{"debug", "info", "warn", "warning", "error"}},
					"format": map[string]any{"type": "string", "enum": []string{"json", "text"}},
				},
			},
		},
	}
}

// ValidateJSONAgainstSchema validates the JSON encoding of v against schemaMap.
func ValidateJSONAgainstSchema(schemaMap map[string]any, v any) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
