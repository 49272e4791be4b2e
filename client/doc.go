// Package client provides the oracle used by the recommendation client.
//
// A Client selects one provider (Google Gemini by default, or OpenAI or
// Anthropic) and lazily creates the SDK client on the first request. A
// missing API key is not an error until a request is made; the request then
// fails with *cinematch.ErrMissingAPIKey.
//
//	c := client.New(client.Config{
//	    Provider: cinematch.ProviderGoogle,
//	    APIKeys:  client.APIKeys{Google: os.Getenv("GEMINI_API_KEY")},
//	})
//	text, err := c.Generate(ctx, cinematch.Request{Prompt: "..."})
//
// # Events
//
// Set Config.Events to observe request start, completion and failure. Sends
// never block; events are dropped when the channel is full.
package client
