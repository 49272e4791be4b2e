package recommend

import (
	"strings"
	"text/template"

	"github.com/spetersoncode/cinematch"
)

var promptTemplate = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"join": func(items []string) string { return strings.Join(items, ", ") },
}).Parse(`
You are an intelligent Movie Recommendation System.
Based on the following user preferences, recommend at least {{.Min}} movies.

User Preferences:
- Genres: {{join .Prefs.Genres}}
- Favorite Movies: {{join .Prefs.FavoriteMovies}}
- Favorite Actors: {{join .Prefs.Actors}}
- Language: {{.Prefs.Language}}
- Year Range: {{.Prefs.YearRange}}
- Mood: {{.Prefs.Mood}}

Follow these steps:
1. Analyze similarity based on genres, themes, actors, and tone.
2. Provide a summary of the user's preferences.
3. Recommend at least {{.Min}} movies that the user hasn't listed as favorites.

Return the response in JSON format matching this schema:
{
  "summary": {
    "genres": "string",
    "mood": "string",
    "favoriteMovies": "string",
    "language": "string",
    "yearRange": "string"
  },
  "recommendations": [
    {
      "title": "string",
      "year": "string",
      "genre": "string",
      "whyRecommended": "string",
      "similarTo": "string"
    }
  ]
}
`))

type promptData struct {
	Prefs cinematch.Preferences
	Min   int
}

// BuildPrompt renders the instruction sent to the oracle.
// List fields are comma-joined and scalar fields are inserted as-is.
func BuildPrompt(prefs cinematch.Preferences) string {
	var sb strings.Builder
	// The template only ranges over strings, so execution cannot fail.
	_ = promptTemplate.Execute(&sb, promptData{Prefs: prefs, Min: cinematch.MinRecommendations})
	return sb.String()
}
