package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spetersoncode/cinematch"
	"github.com/spetersoncode/cinematch/internal/provider/anthropic"
	"github.com/spetersoncode/cinematch/internal/provider/google"
	"github.com/spetersoncode/cinematch/internal/provider/openai"
)

// APIKeys holds API keys for different providers.
// Only configure keys for providers you intend to use.
type APIKeys struct {
	Anthropic string
	OpenAI    string
	Google    string
}

// For returns the key configured for p.
func (k APIKeys) For(p cinematch.Provider) string {
	switch p {
	case cinematch.ProviderAnthropic:
		return k.Anthropic
	case cinematch.ProviderOpenAI:
		return k.OpenAI
	case cinematch.ProviderGoogle:
		return k.Google
	default:
		return ""
	}
}

// Config holds configuration for creating a client.
type Config struct {
	// Provider selects the backend. Defaults to Google.
	Provider cinematch.Provider

	// Model overrides the provider's default model.
	Model string

	// APIKeys contains authentication keys for each provider.
	APIKeys APIKeys

	// Logger is handed to provider clients. Defaults to slog.Default().
	Logger *slog.Logger

	// Events is an optional channel for receiving client operation events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- Event
}

// Client is a cinematch.Oracle backed by the configured provider.
// The provider client is lazily initialized on first use and shared by all
// callers; Client is safe for concurrent use.
type Client struct {
	provider cinematch.Provider
	model    string
	apiKeys  APIKeys
	log      *slog.Logger
	events   chan<- Event

	// Lazy-initialized providers (protected by mutex)
	mu              sync.RWMutex
	anthropicClient *anthropic.Client
	openaiClient    *openai.Client
	googleClient    *google.Client
	googleInitErr   error
}

// New creates a client with the given configuration.
func New(cfg Config) *Client {
	provider := cfg.Provider
	if provider == "" {
		provider = cinematch.ProviderGoogle
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		provider: provider,
		model:    cfg.Model,
		apiKeys:  cfg.APIKeys,
		log:      log,
		events:   cfg.Events,
	}
}

// Provider returns the configured provider.
func (c *Client) Provider() cinematch.Provider { return c.provider }

// HasKey reports whether the configured provider has an API key.
func (c *Client) HasKey() bool { return c.apiKeys.For(c.provider) != "" }

// getAnthropicClient returns the Anthropic client, initializing it if needed.
func (c *Client) getAnthropicClient() (*anthropic.Client, error) {
	c.mu.RLock()
	if c.anthropicClient != nil {
		defer c.mu.RUnlock()
		return c.anthropicClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.anthropicClient != nil {
		return c.anthropicClient, nil
	}

	if c.apiKeys.Anthropic == "" {
		return nil, &cinematch.ErrMissingAPIKey{Provider: "anthropic"}
	}

	c.anthropicClient = anthropic.New(c.apiKeys.Anthropic,
		anthropic.WithModel(anthropic.ChatModel(c.model)),
		anthropic.WithLogger(c.log),
	)
	return c.anthropicClient, nil
}

// getOpenAIClient returns the OpenAI client, initializing it if needed.
func (c *Client) getOpenAIClient() (*openai.Client, error) {
	c.mu.RLock()
	if c.openaiClient != nil {
		defer c.mu.RUnlock()
		return c.openaiClient, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.openaiClient != nil {
		return c.openaiClient, nil
	}

	if c.apiKeys.OpenAI == "" {
		return nil, &cinematch.ErrMissingAPIKey{Provider: "openai"}
	}

	c.openaiClient = openai.New(c.apiKeys.OpenAI,
		openai.WithModel(openai.ChatModel(c.model)),
		openai.WithLogger(c.log),
	)
	return c.openaiClient, nil
}

// getGoogleClient returns the Google client, initializing it if needed.
// An initialization failure is remembered and returned on later calls.
func (c *Client) getGoogleClient(ctx context.Context) (*google.Client, error) {
	c.mu.RLock()
	if c.googleClient != nil {
		defer c.mu.RUnlock()
		return c.googleClient, nil
	}
	if c.googleInitErr != nil {
		defer c.mu.RUnlock()
		return nil, c.googleInitErr
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if c.googleClient != nil {
		return c.googleClient, nil
	}
	if c.googleInitErr != nil {
		return nil, c.googleInitErr
	}

	if c.apiKeys.Google == "" {
		return nil, &cinematch.ErrMissingAPIKey{Provider: "google"}
	}

	client, err := google.New(ctx, c.apiKeys.Google,
		google.WithModel(google.ChatModel(c.model)),
		google.WithLogger(c.log),
	)
	if err != nil {
		c.googleInitErr = fmt.Errorf("failed to initialize Google client: %w", err)
		return nil, c.googleInitErr
	}

	c.googleClient = client
	return c.googleClient, nil
}

// oracle returns the provider client for the configured provider, and the
// model it will use by default.
func (c *Client) oracle(ctx context.Context) (cinematch.Oracle, string, error) {
	switch c.provider {
	case cinematch.ProviderAnthropic:
		client, err := c.getAnthropicClient()
		if err != nil {
			return nil, "", err
		}
		return client, client.Model().String(), nil
	case cinematch.ProviderOpenAI:
		client, err := c.getOpenAIClient()
		if err != nil {
			return nil, "", err
		}
		return client, client.Model().String(), nil
	case cinematch.ProviderGoogle:
		client, err := c.getGoogleClient(ctx)
		if err != nil {
			return nil, "", err
		}
		return client, client.Model().String(), nil
	default:
		return nil, "", fmt.Errorf("unsupported provider: %s", c.provider)
	}
}

// Generate sends the request to the configured provider.
func (c *Client) Generate(ctx context.Context, req cinematch.Request, opts ...cinematch.Option) (string, error) {
	options := cinematch.ApplyOptions(opts...)

	oracle, model, err := c.oracle(ctx)
	if err != nil {
		emit(c.events, Event{Type: EventRequestError, Provider: c.provider, Model: c.model, Error: err})
		return "", err
	}
	if options.Model != "" {
		model = options.Model
	}

	emit(c.events, Event{Type: EventRequestStart, Provider: c.provider, Model: model})
	start := time.Now()

	content, err := oracle.Generate(ctx, req, opts...)
	duration := time.Since(start)
	if err != nil {
		emit(c.events, Event{Type: EventRequestError, Provider: c.provider, Model: model, Duration: duration, Error: err})
		return "", err
	}

	emit(c.events, Event{Type: EventRequestComplete, Provider: c.provider, Model: model, Duration: duration})
	return content, nil
}

var _ cinematch.Oracle = (*Client)(nil)
