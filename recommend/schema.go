package recommend

import (
	"github.com/spetersoncode/cinematch"
	"github.com/spetersoncode/cinematch/schema"
)

// SchemaName identifies the reply schema to providers that require a name.
const SchemaName = "movie_recommendations"

func summarySchema() *schema.ObjectBuilder {
	return schema.Object().
		Field("genres", schema.String().Required()).
		Field("mood", schema.String().Required()).
		Field("favoriteMovies", schema.String().Required()).
		Field("language", schema.String().Required()).
		Field("yearRange", schema.String().Required())
}

func itemSchema() *schema.ObjectBuilder {
	return schema.Object().
		Field("title", schema.String().Required()).
		Field("year", schema.String().Required()).
		Field("genre", schema.String().Required()).
		Field("whyRecommended", schema.String().Required()).
		Field("similarTo", schema.String().Required())
}

// ResponseSchema declares the reply shape: a summary object with five
// required strings and a recommendations array of objects with five required
// strings each.
func ResponseSchema() *cinematch.ResponseSchema {
	return &cinematch.ResponseSchema{
		Name:        SchemaName,
		Description: "A summary of the user's movie preferences and a list of recommended movies",
		Schema: schema.Object().
			Field("summary", summarySchema().Required()).
			Field("recommendations", schema.Array(itemSchema()).Required()).
			MustBuild(),
	}
}
