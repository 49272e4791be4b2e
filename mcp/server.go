// Package mcp exposes movie recommendations as a Model Context Protocol tool.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spetersoncode/cinematch"
	"github.com/spetersoncode/cinematch/flow"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name     string
	version  string
	log      *slog.Logger
	flowOpts []flow.Option
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) ServerOption {
	return func(c *serverConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// WithFlowOptions adds options to the flow created for each call.
func WithFlowOptions(opts ...flow.Option) ServerOption {
	return func(c *serverConfig) {
		c.flowOpts = append(c.flowOpts, opts...)
	}
}

// NewServer creates an MCP server with the recommend_movies tool backed by rec.
//
//	s := mcp.NewServer(recommend.New(oracle), mcp.WithName("cinematch"))
//	server.ServeStdio(s)
func NewServer(rec cinematch.Recommender, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "cinematch",
		version: "1.0.0",
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)
	s.AddTool(RecommendTool(), recommendHandler(rec, cfg))
	return s
}

// recommendHandler runs one single-use flow per call. Validation and oracle
// failures are tool errors carrying the user-visible message.
func recommendHandler(rec cinematch.Recommender, cfg *serverConfig) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		prefs, err := decodePreferences(req.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		opts := append([]flow.Option{flow.WithDraft(prefs), flow.WithLogger(cfg.log)}, cfg.flowOpts...)
		result, err := flow.New(rec, opts...).Submit(ctx)
		if err != nil {
			cfg.log.Info("recommend_movies failed", "error", err)
			return mcp.NewToolResultError(cinematch.UserMessage(err)), nil
		}

		data, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func decodePreferences(args any) (cinematch.Preferences, error) {
	var prefs cinematch.Preferences
	if args == nil {
		return prefs, nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return prefs, err
	}
	if err := json.Unmarshal(data, &prefs); err != nil {
		return prefs, err
	}
	return prefs, nil
}

// ServeStdio serves the recommendation tool over stdin/stdout.
func ServeStdio(rec cinematch.Recommender, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(rec, opts...))
}
