// Command cinematch serves the movie recommendation web app.
//
// Configuration is via environment variables (a .env file is loaded if present):
//
//	CINEMATCH_PORT           - Server port (default: 3000)
//	CINEMATCH_LOG_LEVEL      - debug, info, warn or error (default: info)
//	CINEMATCH_PROVIDER       - google, openai or anthropic (default: google)
//	CINEMATCH_MODEL          - Model override (optional, uses provider default)
//	CINEMATCH_MAX_TOKENS     - Output token cap (optional)
//	CINEMATCH_SESSION_TTL    - Idle session lifetime (default: 2h)
//	CINEMATCH_SECURE_COOKIES - Mark the session cookie Secure (default: false)
//	CINEMATCH_CORS_ORIGINS   - Comma-separated origins allowed to call /api/recommend
//	GEMINI_API_KEY           - Google API key (GOOGLE_API_KEY also accepted)
//	OPENAI_API_KEY           - OpenAI API key
//	ANTHROPIC_API_KEY        - Anthropic API key
//
// Usage:
//
//	GEMINI_API_KEY=... go run ./cmd/cinematch
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spetersoncode/cinematch"
	"github.com/spetersoncode/cinematch/agui"
	"github.com/spetersoncode/cinematch/client"
	"github.com/spetersoncode/cinematch/flow"
	"github.com/spetersoncode/cinematch/internal/config"
	"github.com/spetersoncode/cinematch/internal/metrics"
	"github.com/spetersoncode/cinematch/recommend"
	"github.com/spetersoncode/cinematch/session"
	"github.com/spetersoncode/cinematch/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	log := cfg.Logger(os.Stderr)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events := make(chan client.Event, 64)
	go recordOracleEvents(events)

	oracle := client.New(client.Config{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKeys:  cfg.APIKeys(),
		Logger:   log,
		Events:   events,
	})
	if !oracle.HasKey() {
		log.Warn("no API key configured; recommendation requests will fail",
			"provider", cfg.Provider, "env", cfg.KeyEnv())
	}

	rec := newRecommender(cfg, oracle, log)
	transitions := flow.WithListener(recordTransition)

	store := session.New(
		func(id string) *flow.Flow {
			return flow.New(rec, transitions, flow.WithLogger(log.With("session_id", id)))
		},
		session.WithTTL(cfg.SessionTTL),
		session.WithOnEvict(func(string) { metrics.SessionEvicted() }),
	)

	srv := web.NewServer(store,
		web.WithLogger(log),
		web.WithAPI(agui.NewHandler(rec, agui.WithLogger(log), agui.WithFlowOptions(transitions))),
		web.WithBaseContext(ctx),
		web.WithSecureCookies(cfg.SecureCookies),
		web.WithCORSOrigins(cfg.CORSOrigins...),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	log.Info("cinematch starting",
		"addr", "http://localhost:"+cfg.Port,
		"provider", cfg.Provider,
		"model", cfg.Model,
	)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

func newRecommender(cfg *config.Config, oracle cinematch.Oracle, log *slog.Logger) *recommend.Client {
	opts := []recommend.Option{
		recommend.WithLogger(log),
		recommend.WithObserver(func(o recommend.Outcome, d time.Duration) {
			metrics.RecordRecommendation(string(o), d)
		}),
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, recommend.WithOracleOptions(cinematch.WithMaxTokens(cfg.MaxTokens)))
	}
	return recommend.New(oracle, opts...)
}

func recordTransition(t flow.Transition) {
	metrics.RecordTransition(string(t.From.Step()), string(t.To.Step()))
}

func recordOracleEvents(events <-chan client.Event) {
	for ev := range events {
		switch ev.Type {
		case client.EventRequestComplete:
			metrics.RecordOracleRequest(string(ev.Provider), ev.Model, "ok", ev.Duration)
		case client.EventRequestError:
			metrics.RecordOracleRequest(string(ev.Provider), ev.Model, oracleStatus(ev.Error), ev.Duration)
		}
	}
}

func oracleStatus(err error) string {
	var apiErr *cinematch.APIError
	if errors.As(err, &apiErr) {
		return string(apiErr.Category)
	}
	return "error"
}
