// Package anthropic provides a Claude-backed [cinematch.Oracle].
//
// Claude has no native response-schema mode, so structured output is
// requested by forcing a single synthetic tool whose input schema is the
// declared reply schema. The tool call's input is returned as the reply text.
//
//	oracle := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"),
//	    anthropic.WithModel(anthropic.ClaudeSonnet45))
//	text, err := oracle.Generate(ctx, cinematch.Request{Prompt: p, Schema: s})
package anthropic
