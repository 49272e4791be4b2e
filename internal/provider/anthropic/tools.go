package anthropic

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spetersoncode/cinematch"
	"github.com/spetersoncode/cinematch/schema"
)

// jsonResponseToolName is the name of the synthetic tool used for JSON replies.
const jsonResponseToolName = "__cinematch_json_response__"

func buildJSONTool(rs *cinematch.ResponseSchema) (anthropic.ToolUnionParam, anthropic.ToolChoiceUnionParam) {
	var doc map[string]any
	if len(rs.Schema) > 0 {
		_ = json.Unmarshal(rs.Schema, &doc)
	}
	doc = schema.StripKeyword(doc, "propertyOrdering")

	description := "Output the response as structured JSON"
	if rs.Description != "" {
		description = rs.Description
	}

	var required []string
	if reqVal, ok := doc["required"].([]any); ok {
		for _, r := range reqVal {
			if s, ok := r.(string); ok {
				required = append(required, s)
			}
		}
	}

	tool := anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        jsonResponseToolName,
			Description: anthropic.String(description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: doc["properties"],
				Required:   required,
			},
		},
	}

	toolChoice := anthropic.ToolChoiceUnionParam{
		OfTool: &anthropic.ToolChoiceToolParam{
			Name: jsonResponseToolName,
		},
	}

	return tool, toolChoice
}
