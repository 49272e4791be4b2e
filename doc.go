// Package cinematch turns a user's stated movie tastes into AI-generated
// recommendations.
//
// The package defines the shared data model:
//
//   - [Preferences]: the record collected by the form (genres, favorite
//     movies, actors, language, year range, mood)
//   - [Result]: the structured reply of the model, a summary plus a list of
//     recommended movies
//   - [Oracle]: the narrow seam to the hosted model, so tests can substitute
//     a deterministic stub
//
// Use the [github.com/spetersoncode/cinematch/recommend] package to build
// prompts and parse replies, [github.com/spetersoncode/cinematch/client] to
// reach a hosted provider, and [github.com/spetersoncode/cinematch/flow] to
// drive the input, loading and results states of one session.
//
// # Basic Usage
//
//	c := client.New(client.Config{
//	    Provider: cinematch.ProviderGoogle,
//	    APIKeys:  client.APIKeys{Google: os.Getenv("GEMINI_API_KEY")},
//	})
//	r := recommend.New(c)
//
//	var prefs cinematch.Preferences
//	prefs.Add(cinematch.FieldGenres, "Sci-Fi")
//	prefs.Add(cinematch.FieldFavoriteMovies, "Inception")
//
//	result, err := r.Recommend(ctx, prefs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, item := range result.Recommendations {
//	    fmt.Println(item.Title, item.Year)
//	}
//
// # Errors
//
// Two failure kinds exist. [ValidationError] is raised locally when nothing
// submittable was stated. [RequestError] covers every oracle failure:
// transport, provider-side and malformed output alike.
package cinematch
