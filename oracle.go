package cinematch

import (
	"context"
	"encoding/json"
)

// ResponseSchema declares the JSON shape the oracle must reply with.
type ResponseSchema struct {
	// Name identifies the schema. Some providers require it.
	Name string

	// Description tells the model what the schema is for.
	Description string

	// Schema is a JSON Schema document.
	Schema json.RawMessage
}

// Request is one prompt sent to the oracle.
type Request struct {
	Prompt string
	Schema *ResponseSchema
}

// Oracle is a hosted generative model that turns a prompt plus a declared
// schema into JSON text.
type Oracle interface {
	// Generate sends the request and returns the raw reply text.
	Generate(ctx context.Context, req Request, opts ...Option) (string, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, req Request, opts ...Option) (string, error)

// Generate calls f.
func (f OracleFunc) Generate(ctx context.Context, req Request, opts ...Option) (string, error) {
	return f(ctx, req, opts...)
}

// Recommender produces recommendations for a preference record.
// Failures are reported as *RequestError.
type Recommender interface {
	Recommend(ctx context.Context, prefs Preferences) (*Result, error)
}

// RecommenderFunc adapts a function to the Recommender interface.
type RecommenderFunc func(ctx context.Context, prefs Preferences) (*Result, error)

// Recommend calls f.
func (f RecommenderFunc) Recommend(ctx context.Context, prefs Preferences) (*Result, error) {
	return f(ctx, prefs)
}
