// Command mcp serves movie recommendations as an MCP tool over stdio.
//
// It reads the same environment as cmd/cinematch. Logs go to stderr since
// stdout carries the protocol.
//
// Configuration for Claude Desktop (~/Library/Application Support/Claude/claude_desktop_config.json):
//
//	{
//	    "mcpServers": {
//	        "cinematch": {
//	            "command": "go",
//	            "args": ["run", "./cmd/mcp"],
//	            "cwd": "/path/to/cinematch",
//	            "env": {"GEMINI_API_KEY": "..."}
//	        }
//	    }
//	}
package main

import (
	"log/slog"
	"os"

	"github.com/spetersoncode/cinematch"
	"github.com/spetersoncode/cinematch/client"
	"github.com/spetersoncode/cinematch/internal/config"
	"github.com/spetersoncode/cinematch/mcp"
	"github.com/spetersoncode/cinematch/recommend"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	log := cfg.Logger(os.Stderr)

	oracle := client.New(client.Config{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKeys:  cfg.APIKeys(),
		Logger:   log,
	})
	if !oracle.HasKey() {
		log.Warn("no API key configured; tool calls will fail",
			"provider", cfg.Provider, "env", cfg.KeyEnv())
	}

	opts := []recommend.Option{recommend.WithLogger(log)}
	if cfg.MaxTokens > 0 {
		opts = append(opts, recommend.WithOracleOptions(cinematch.WithMaxTokens(cfg.MaxTokens)))
	}
	rec := recommend.New(oracle, opts...)

	if err := mcp.ServeStdio(rec,
		mcp.WithName("cinematch"),
		mcp.WithVersion(version),
		mcp.WithLogger(log),
	); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
