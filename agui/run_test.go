package agui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/cinematch"
	"github.com/spetersoncode/cinematch/flow"
)

func fixedRecommender(result *cinematch.Result, err error) cinematch.Recommender {
	return cinematch.RecommenderFunc(func(context.Context, cinematch.Preferences) (*cinematch.Result, error) {
		return result, err
	})
}

func fiveItems() *cinematch.Result {
	r := &cinematch.Result{Summary: cinematch.Summary{Genres: "Sci-Fi", FavoriteMovies: "Inception"}}
	for i := range 5 {
		r.Recommendations = append(r.Recommendations, cinematch.Item{Title: fmt.Sprintf("Movie %d", i+1)})
	}
	return r
}

func collect(ch <-chan events.Event) []events.EventType {
	var types []events.EventType
	for ev := range ch {
		types = append(types, ev.Type())
	}
	return types
}

func equalTypes(a, b []events.EventType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRun_Success(t *testing.T) {
	input := (&RecommendInput{
		ThreadID:    "thread-1",
		RunID:       "run-1",
		Preferences: cinematch.Preferences{Genres: []string{"Sci-Fi"}, FavoriteMovies: []string{"Inception"}},
	}).Prepare()

	got := collect(Run(context.Background(), fixedRecommender(fiveItems(), nil), input))

	want := []events.EventType{
		events.EventTypeRunStarted,
		events.EventTypeStepStarted,
		events.EventTypeStateSnapshot,
		events.EventTypeStepFinished,
		events.EventTypeRunFinished,
	}
	if !equalTypes(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestRun_ValidationFailure(t *testing.T) {
	input := (&RecommendInput{Preferences: cinematch.Preferences{Actors: []string{"Tilda Swinton"}}}).Prepare()

	var last events.Event
	var types []events.EventType
	for ev := range Run(context.Background(), fixedRecommender(fiveItems(), nil), input) {
		types = append(types, ev.Type())
		last = ev
	}

	want := []events.EventType{events.EventTypeRunStarted, events.EventTypeRunError}
	if !equalTypes(types, want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	data, err := last.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if !strings.Contains(string(data), cinematch.MsgValidation) {
		t.Errorf("RUN_ERROR payload %s does not carry the validation message", data)
	}
}

func TestRun_RequestFailure(t *testing.T) {
	input := (&RecommendInput{Preferences: cinematch.Preferences{Mood: "Dark"}}).Prepare()
	rec := fixedRecommender(nil, &cinematch.RequestError{Op: "generate", Cause: errors.New("boom")})

	var last events.Event
	var types []events.EventType
	for ev := range Run(context.Background(), rec, input) {
		types = append(types, ev.Type())
		last = ev
	}

	want := []events.EventType{
		events.EventTypeRunStarted,
		events.EventTypeStepStarted,
		events.EventTypeStepFinished,
		events.EventTypeRunError,
	}
	if !equalTypes(types, want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	data, _ := last.ToJSON()
	if !strings.Contains(string(data), cinematch.MsgRequest) {
		t.Errorf("RUN_ERROR payload %s does not carry the retry message", data)
	}
	if strings.Contains(string(data), "boom") {
		t.Errorf("RUN_ERROR payload leaks the cause: %s", data)
	}
}

func TestRun_ExtraFlowOptions(t *testing.T) {
	var transitions int
	input := (&RecommendInput{Preferences: cinematch.Preferences{Mood: "Calm"}}).Prepare()

	collect(Run(context.Background(), fixedRecommender(fiveItems(), nil), input,
		flow.WithListener(func(flow.Transition) { transitions++ })))

	if transitions != 2 {
		t.Errorf("transitions = %d, want 2", transitions)
	}
}

func TestPrepare_GeneratesIDs(t *testing.T) {
	p := (&RecommendInput{Preferences: cinematch.Preferences{Genres: []string{"Drama", "Drama"}}}).Prepare()
	if p.ThreadID == "" || p.RunID == "" {
		t.Errorf("expected generated IDs, got thread=%q run=%q", p.ThreadID, p.RunID)
	}
	if len(p.Preferences.Genres) != 1 {
		t.Errorf("Genres = %v, want deduplicated", p.Preferences.Genres)
	}
}

func TestHandler(t *testing.T) {
	h := NewHandler(fixedRecommender(fiveItems(), nil))

	t.Run("streams SSE events", func(t *testing.T) {
		body := `{"threadId":"t-1","runId":"r-1","preferences":{"genres":["Sci-Fi"],"favoriteMovies":["Inception"]}}`
		req := httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
			t.Errorf("Content-Type = %q", ct)
		}
		out := rec.Body.String()
		for _, want := range []string{
			"event: RUN_STARTED\n",
			"event: STATE_SNAPSHOT\n",
			"event: RUN_FINISHED\n",
			"Movie 5",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("body missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("rejects GET", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recommend", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader("{")))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})
}
