package openai

import (
	"context"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spetersoncode/cinematch"
)

// Client wraps the OpenAI SDK to implement cinematch.Oracle.
type Client struct {
	client *openai.Client
	model  ChatModel
	log    *slog.Logger
}

// New creates a new OpenAI client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultChatModel,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the OpenAI client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model ChatModel) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger used for usage reporting.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// Model returns the default model.
func (c *Client) Model() ChatModel { return c.model }

// Generate sends a single-turn prompt and returns the first choice's content.
func (c *Client) Generate(ctx context.Context, req cinematch.Request, opts ...cinematch.Option) (string, error) {
	options := cinematch.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = ChatModel(options.Model)
	}

	resp, err := c.client.Chat.Completions.New(ctx, buildParams(model, req, options))
	if err != nil {
		return "", wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", cinematch.ErrEmptyResponse
	}

	c.log.DebugContext(ctx, "openai usage",
		"model", model,
		"input_tokens", resp.Usage.PromptTokens,
		"output_tokens", resp.Usage.CompletionTokens,
	)
	return resp.Choices[0].Message.Content, nil
}

func buildParams(model ChatModel, req cinematch.Request, options *cinematch.Options) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    model.String(),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(req.Prompt)},
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if req.Schema != nil {
		params.ResponseFormat = buildOpenAISchemaFormat(req.Schema)
	}
	return params
}

var _ cinematch.Oracle = (*Client)(nil)
