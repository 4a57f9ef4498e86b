// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package config

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id of the configuration schema.
const SchemaID = "https://ember.dev/schemas/config.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jschema.Schema
	compileErr     error
)

// GenerateSchema generates a JSON Schema from the Config struct.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := r.Reflect(&Config{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "Ember Configuration"
	schema.Description = "Schema for ember.yaml configuration files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.In("config").Wrapf(err, "marshal schema")
	}
	return data, nil
}

// ValidateSchema validates YAML data against the configuration schema. An
// empty document is valid.
func ValidateSchema(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return oops.In("config").Code("CONFIG_YAML_INVALID").Wrapf(err, "invalid YAML")
	}
	if doc == nil {
		return nil
	}

	sch, err := schema()
	if err != nil {
		return err
	}
	if err := sch.Validate(toJSONTypes(doc)); err != nil {
		return oops.In("config").Code("CONFIG_SCHEMA_INVALID").Wrapf(err, "schema validation failed")
	}
	return nil
}

func schema() (*jschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := GenerateSchema()
		if err != nil {
			compileErr = err
			return
		}
		doc, err := jschema.UnmarshalJSON(strings.NewReader(string(raw)))
		if err != nil {
			compileErr = oops.In("config").Wrapf(err, "parse schema")
			return
		}
		c := jschema.NewCompiler()
		if err := c.AddResource("config.schema.json", doc); err != nil {
			compileErr = oops.In("config").Wrapf(err, "add schema resource")
			return
		}
		compiledSchema, compileErr = c.Compile("config.schema.json")
		if compileErr != nil {
			compileErr = oops.In("config").Wrapf(compileErr, "compile schema")
		}
	})
	return compiledSchema, compileErr
}

// toJSONTypes converts YAML-decoded values into the types encoding/json
// produces, which is what the validator expects.
func toJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			out[k] = toJSONTypes(v)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, v := range val {
			out[i] = toJSONTypes(v)
		}
		return out
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	case string, float64, bool, nil:
		return val
	default:
		if b, err := json.Marshal(val); err == nil {
			var out any
			if err := json.Unmarshal(b, &out); err == nil {
				return out
			}
		}
		return val
	}
}

// FormatSchemaError strips the wrapping prefix from a schema validation
// error for display.
func FormatSchemaError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.Index(msg, "schema validation failed: "); i >= 0 {
		msg = msg[i+len("schema validation failed: "):]
	}
	return msg
}
