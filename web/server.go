// Package web serves the recommendation flow as server-rendered HTML.
//
// Each browser session owns one flow. Every form post mutates the session's
// flow and redirects back to "/", which renders whichever of the input,
// loading or results views the flow is in. The loading view refreshes itself
// until the oracle call finishes.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spetersoncode/cinematch/session"
)

// Server holds the HTTP handlers.
type Server struct {
	sessions *session.Store
	api      http.Handler
	log      *slog.Logger
	baseCtx  context.Context
	secure   bool
	origins  []string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithAPI mounts h at POST /api/recommend.
func WithAPI(h http.Handler) Option {
	return func(s *Server) {
		s.api = h
	}
}

// WithBaseContext sets the context for oracle calls started by form submits.
// Cancelling it aborts in-flight calls. Defaults to context.Background().
func WithBaseContext(ctx context.Context) Option {
	return func(s *Server) {
		if ctx != nil {
			s.baseCtx = ctx
		}
	}
}

// WithSecureCookies marks the session cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.secure = secure
	}
}

// WithCORSOrigins allows cross-origin calls to the API from origins.
// With none set, the API answers same-origin requests only.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = append(s.origins, origins...)
	}
}

// NewServer creates a server over sessions.
func NewServer(sessions *session.Store, opts ...Option) *Server {
	s := &Server{
		sessions: sessions,
		log:      slog.Default(),
		baseCtx:  context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	if s.api != nil {
		r.Group(func(r chi.Router) {
			if len(s.origins) > 0 {
				r.Use(cors.Handler(cors.Options{
					AllowedOrigins: s.origins,
					AllowedMethods: []string{http.MethodPost, http.MethodOptions},
					AllowedHeaders: []string{"Content-Type", "Accept"},
					MaxAge:         300,
				}))
				r.Options("/api/recommend", func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusNoContent)
				})
			}
			r.Post("/api/recommend", s.api.ServeHTTP)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handleIndex)
		r.Post("/preferences", s.handleSetScalars)
		r.Post("/preferences/{field}/add", s.handleAdd)
		r.Post("/preferences/{field}/remove", s.handleRemove)
		r.Post("/enter", s.handleEnter)
		r.Post("/submit", s.handleSubmit)
		r.Post("/restart", s.handleRestart)
		r.Post("/new-search", s.handleRestart)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}
