package logformat

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ErrSchemaViolation is returned when a custom format file fails schema
// validation.
var ErrSchemaViolation = errors.New("format file violates schema")

// formatSchema constrains custom format files before they are decoded.
// Validation errors point at the offending key rather than surfacing as a
// decode failure deep inside the run.
const formatSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "lines": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["type", "pattern"],
        "properties": {
          "type": {"type": "string", "minLength": 1},
          "pattern": {"type": "string", "minLength": 1},
          "kinds": {
            "type": "object",
            "additionalProperties": {
              "enum": ["string", "int", "float", "bool", "duration", "time"]
            }
          },
          "time_layout": {"type": "string"}
        },
        "additionalProperties": false
      }
    },
    "json": {
      "type": "object",
      "properties": {
        "type": {"type": "string"},
        "type_path": {"type": "string"},
        "fields": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["name", "path"],
            "properties": {
              "name": {"type": "string", "minLength": 1},
              "path": {"type": "string", "minLength": 1},
              "kind": {"enum": ["string", "int", "float", "bool", "duration", "time"]}
            },
            "additionalProperties": false
          }
        }
      },
      "additionalProperties": false
    },
    "correlate": {
      "type": "object",
      "properties": {
        "key_field": {"type": "string"},
        "start_types": {"type": "array", "items": {"type": "string"}},
        "terminal_type": {"type": "string"},
        "max_open": {"type": "integer", "minimum": 1},
        "idle_lines": {"type": "integer", "minimum": 0}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString("format.schema.json", formatSchema)
	})
	return compiledSchema, schemaErr
}

// LoadFile reads, validates, and compiles a custom format from a YAML or
// JSON file. The returned format is ready for matching but not registered.
func LoadFile(path string) (*Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownName, path)
		}
		return nil, fmt.Errorf("read format file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("format file is empty: %s", path)
	}

	// YAML is a superset of JSON, so one decode path covers both.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse format file %s: %w", path, err)
	}

	// The validator expects encoding/json value shapes, so round-trip the
	// decoded YAML document through JSON first.
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize format file %s: %w", path, err)
	}
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("normalize format file %s: %w", path, err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("compile format schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaViolation, path, err)
	}

	var f Format
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode format file %s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := f.Compile(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Resolve returns a format by registered name or, when the name looks like a
// file path, by loading it from disk.
func Resolve(name string) (*Format, error) {
	if strings.ContainsAny(name, "/\\") || hasFormatExt(name) {
		return LoadFile(name)
	}
	return Get(name)
}

func hasFormatExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
