package openai

import (
	"encoding/json"

	"github.com/openai/openai-go"
	"github.com/spetersoncode/cinematch"
	"github.com/spetersoncode/cinematch/schema"
)

func buildOpenAISchemaFormat(rs *cinematch.ResponseSchema) openai.ChatCompletionNewParamsResponseFormatUnion {
	schemaMap := strictSchema(rs.Schema)

	name := rs.Name
	if name == "" {
		name = "response_schema"
	}

	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			Type: "json_schema",
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        name,
				Description: openai.String(rs.Description),
				Schema:      schemaMap,
				Strict:      openai.Bool(true),
			},
		},
	}
}

// strictSchema decodes raw into the form strict mode accepts: no
// Gemini-only keywords and additionalProperties false on every object.
func strictSchema(raw json.RawMessage) map[string]any {
	var schemaMap map[string]any
	if err := json.Unmarshal(raw, &schemaMap); err != nil {
		return map[string]any{"type": "object"}
	}
	schemaMap = schema.StripKeyword(schemaMap, "propertyOrdering")
	addAdditionalPropertiesFalse(schemaMap)
	return schemaMap
}

// addAdditionalPropertiesFalse recursively adds additionalProperties: false to all object schemas.
func addAdditionalPropertiesFalse(node map[string]any) {
	if node == nil {
		return
	}

	if schemaType, ok := node["type"].(string); ok && schemaType == "object" {
		node["additionalProperties"] = false
	}

	if props, ok := node["properties"].(map[string]any); ok {
		for _, propSchema := range props {
			if propMap, ok := propSchema.(map[string]any); ok {
				addAdditionalPropertiesFalse(propMap)
			}
		}
	}

	if items, ok := node["items"].(map[string]any); ok {
		addAdditionalPropertiesFalse(items)
	}
}
