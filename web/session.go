package web

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spetersoncode/cinematch/flow"
	"github.com/spetersoncode/cinematch/internal/metrics"
)

// CookieName is the session cookie.
const CookieName = "cinematch_session"

type ctxKey int

const (
	flowKey ctxKey = iota
	sessionKey
)

// withSession resolves the session cookie to a flow, creating one if needed.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(CookieName); err == nil {
			id = c.Value
		}

		sid, f, created := s.sessions.GetOrCreate(id)
		if created {
			metrics.SessionCreated()
			s.log.Debug("session created", "session_id", sid, "request_id", chimiddleware.GetReqID(r.Context()))
		}
		if sid != id {
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), flowKey, f)
		ctx = context.WithValue(ctx, sessionKey, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func flowFrom(ctx context.Context) *flow.Flow {
	f, _ := ctx.Value(flowKey).(*flow.Flow)
	return f
}

func sessionFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey).(string)
	return id
}
