package openai

// ChatModel represents an OpenAI chat/completion model.
type ChatModel string

const (
	GPT52     ChatModel = "gpt-5.2"
	GPT51     ChatModel = "gpt-5.1"
	GPT51Mini ChatModel = "gpt-5.1-mini"
	GPT5      ChatModel = "gpt-5"
	GPT5Mini  ChatModel = "gpt-5-mini"
	GPT5Nano  ChatModel = "gpt-5-nano"

	// DefaultChatModel is the recommended default model.
	DefaultChatModel ChatModel = GPT5Mini
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }
