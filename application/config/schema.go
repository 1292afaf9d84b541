package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/gloss-dev/glossbridge/domain/errors"
)

// Schema returns the JSON Schema (Draft 2020-12) of a configuration file.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(&Config{})
	schema.Title = "glossbridge configuration"

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, &errors.SchemaError{Type: "Config", Err: err}
	}
	return out, nil
}
