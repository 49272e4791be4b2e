package anthropic

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spetersoncode/cinematch"
)

const defaultMaxTokens = 4096

// Client wraps the Anthropic SDK to implement cinematch.Oracle.
type Client struct {
	client *anthropic.Client
	model  ChatModel
	log    *slog.Logger
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
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

// ClientOption configures the Anthropic client.
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

// Generate sends a single-turn prompt. With a schema, the reply is the input
// of the forced JSON tool; otherwise it is the concatenated text blocks.
func (c *Client) Generate(ctx context.Context, req cinematch.Request, opts ...cinematch.Option) (string, error) {
	options := cinematch.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = ChatModel(options.Model)
	}

	resp, err := c.client.Messages.New(ctx, buildParams(model, req, options))
	if err != nil {
		return "", wrapError(err)
	}

	c.log.DebugContext(ctx, "anthropic usage",
		"model", model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)

	var text strings.Builder
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			if req.Schema != nil && block.Name == jsonResponseToolName {
				return string(block.Input), nil
			}
		}
	}
	if req.Schema != nil {
		return "", errors.New("anthropic: reply did not use the JSON response tool")
	}
	return text.String(), nil
}

func buildParams(model ChatModel, req cinematch.Request, options *cinematch.Options) anthropic.MessageNewParams {
	maxTokens := int64(defaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model.String()),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}
	if req.Schema != nil {
		tool, choice := buildJSONTool(req.Schema)
		params.Tools = []anthropic.ToolUnionParam{tool}
		params.ToolChoice = choice
	}
	return params
}

var _ cinematch.Oracle = (*Client)(nil)
