package google

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spetersoncode/cinematch"
	"google.golang.org/genai"
)

// Client wraps the Google GenAI SDK to implement cinematch.Oracle.
type Client struct {
	client *genai.Client
	model  ChatModel
	log    *slog.Logger
}

// New creates a new Google GenAI client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c := &Client{
		client: client,
		model:  DefaultChatModel,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClientOption configures the Google client.
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

// Generate sends a single-turn prompt and returns the concatenated text parts.
func (c *Client) Generate(ctx context.Context, req cinematch.Request, opts ...cinematch.Option) (string, error) {
	options := cinematch.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = ChatModel(options.Model)
	}

	resp, err := c.client.Models.GenerateContent(ctx, model.String(), userContents(req.Prompt), buildConfig(req, options))
	if err != nil {
		return "", wrapError(err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)}
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
	}

	if resp.UsageMetadata != nil {
		c.log.DebugContext(ctx, "gemini usage",
			"model", model,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
		)
	}
	return sb.String(), nil
}

func userContents(prompt string) []*genai.Content {
	return []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}
}

func buildConfig(req cinematch.Request, options *cinematch.Options) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = ConvertJSONSchemaToGenaiSchema(req.Schema.Schema)
	}
	return config
}

var _ cinematch.Oracle = (*Client)(nil)
