package agui

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/cinematch"
	"github.com/spetersoncode/cinematch/flow"
)

// Handler serves recommendation runs as AG-UI events over SSE.
type Handler struct {
	recommender cinematch.Recommender
	flowOpts    []flow.Option
	log         *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithFlowOptions adds options to the flow created for each run.
func WithFlowOptions(opts ...flow.Option) HandlerOption {
	return func(h *Handler) {
		h.flowOpts = append(h.flowOpts, opts...)
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// NewHandler creates a handler backed by rec.
func NewHandler(rec cinematch.Recommender, opts ...HandlerOption) *Handler {
	h := &Handler{recommender: rec, log: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP handles POST requests and streams the run's events.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		h.log.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input RecommendInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	prepared := input.Prepare()

	log := h.log.With(
		"run_id", prepared.RunID,
		"thread_id", prepared.ThreadID,
	)

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	log.Info("run started")

	var eventCount int
	var lastType events.EventType
	for ev := range Run(r.Context(), h.recommender, prepared, h.flowOpts...) {
		eventCount++
		lastType = ev.Type()
		log.Debug("sending SSE event", "event_type", ev.Type(), "event_num", eventCount)

		if err := writeSSE(w, flusher, ev); err != nil {
			log.Error("failed to write SSE event", "error", err, "event_type", ev.Type())
			return
		}
	}

	log.Info("run completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"events_sent", eventCount,
		"last_event", lastType,
	)
}

// writeSSE writes an AG-UI event in SSE format.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, ev events.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	// event: TYPE\ndata: {json}\n\n
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), string(data)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	flusher.Flush()
	return nil
}
