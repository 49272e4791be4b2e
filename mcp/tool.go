package mcp

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spetersoncode/cinematch/schema"
)

// ToolName is the name of the recommendation tool.
const ToolName = "recommend_movies"

const toolDescription = "Recommend at least five movies matching the given tastes. " +
	"Provide at least one genre, one favorite movie, or a mood."

// inputSchema mirrors cinematch.Preferences.
func inputSchema() json.RawMessage {
	list := func(desc string) *schema.ArrayBuilder {
		return schema.Array(schema.String().MinLength(1)).Desc(desc)
	}
	raw := schema.Object().
		Field("genres", list("Preferred genres, e.g. Sci-Fi, Drama")).
		Field("favoriteMovies", list("Movies the user loves; they will not be recommended back")).
		Field("actors", list("Favorite actors")).
		Field("language", schema.String().Desc("Preferred language, e.g. Korean")).
		Field("yearRange", schema.String().Desc("Release window, e.g. 90s or 2010-2020")).
		Field("mood", schema.String().Desc("Current mood, e.g. Funny, Dark, Inspiring")).
		MustBuild()

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return raw
	}
	out, err := json.Marshal(schema.StripKeyword(doc, "propertyOrdering"))
	if err != nil {
		return raw
	}
	return out
}

// RecommendTool returns the MCP tool definition.
func RecommendTool() mcp.Tool {
	return mcp.NewToolWithRawSchema(ToolName, toolDescription, inputSchema())
}
