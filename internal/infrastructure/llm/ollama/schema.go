package ollama

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// schemaFor reflects a strict JSON schema from the destination type. The
// schema is sent to the model as the declared output format, so it must be
// self-contained (no $ref) and closed (no extra keys).
func schemaFor(out any) (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: false,
	}

	raw, err := reflector.Reflect(out).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal reflected schema: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("decode reflected schema: %w", err)
	}

	delete(schema, "$schema")
	delete(schema, "$id")
	tightenObjectSchema(schema)
	return schema, nil
}

func tightenObjectSchema(schema map[string]any) {
	if t, _ := schema["type"].(string); t == "object" {
		schema["additionalProperties"] = false
	}
	if properties, ok := schema["properties"].(map[string]any); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]any); ok {
				tightenObjectSchema(propMap)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		tightenObjectSchema(items)
	}
}
