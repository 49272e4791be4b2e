package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/spetersoncode/cinematch"
	"github.com/spetersoncode/cinematch/flow"
	"github.com/spetersoncode/cinematch/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fiveItems() *cinematch.Result {
	r := &cinematch.Result{Summary: cinematch.Summary{Genres: "Sci-Fi", FavoriteMovies: "Inception"}}
	for i := range 5 {
		r.Recommendations = append(r.Recommendations, cinematch.Item{
			Title: fmt.Sprintf("Movie %d", i+1),
			Year:  "2014",
			Genre: "Sci-Fi",
		})
	}
	r.Recommendations[0].Title = "Blade Runner 2049"
	return r
}

// browser keeps the session cookie between requests.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			b.cookie = c
		}
	}
	return rec
}

func (b *browser) post(path string, form url.Values) {
	b.t.Helper()
	rec := b.do(http.MethodPost, path, form)
	require.Equal(b.t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(b.t, "/", rec.Header().Get("Location"))
}

func (b *browser) page() string {
	b.t.Helper()
	rec := b.do(http.MethodGet, "/", nil)
	require.Equal(b.t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func newTestServer(t *testing.T, rec cinematch.Recommender) (*browser, *session.Store) {
	t.Helper()
	store := session.New(func(string) *flow.Flow { return flow.New(rec) })
	srv := NewServer(store)
	return &browser{t: t, handler: srv.Routes()}, store
}

func stub(result *cinematch.Result, err error) cinematch.Recommender {
	return cinematch.RecommenderFunc(func(context.Context, cinematch.Preferences) (*cinematch.Result, error) {
		return result, err
	})
}

func TestIndex_CreatesSession(t *testing.T) {
	b, store := newTestServer(t, stub(fiveItems(), nil))

	body := b.page()
	assert.Contains(t, body, "Find your next favorite film.")
	require.NotNil(t, b.cookie)
	assert.True(t, b.cookie.HttpOnly)
	assert.Equal(t, 1, store.Len())

	b.page()
	assert.Equal(t, 1, store.Len())
}

func TestEditPreferences(t *testing.T) {
	b, _ := newTestServer(t, stub(fiveItems(), nil))

	b.post("/preferences/genres/add", url.Values{"genres": {"Sci-Fi"}, "mood": {"Dark"}})
	b.post("/preferences/genres/add", url.Values{"value": {"Drama"}})
	b.post("/preferences/actors/add", url.Values{"actors": {"Tilda Swinton"}})

	body := b.page()
	assert.Contains(t, body, tag("Sci-Fi"))
	assert.Contains(t, body, tag("Drama"))
	assert.Contains(t, body, tag("Tilda Swinton"))
	assert.Contains(t, body, `value="Dark"`)

	b.post("/preferences/genres/remove", url.Values{"value": {"Drama"}})
	body = b.page()
	assert.NotContains(t, body, tag("Drama"))
	assert.Contains(t, body, tag("Sci-Fi"))

	b.post("/preferences", url.Values{"language": {"Korean"}})
	assert.Contains(t, b.page(), `value="Korean"`)
}

// tag is the markup of a rendered tag's remove button.
func tag(v string) string {
	return fmt.Sprintf(`aria-label="Remove %s"`, v)
}

func TestAdd_KeepsTextInOtherInputs(t *testing.T) {
	b, _ := newTestServer(t, stub(fiveItems(), nil))

	b.post("/preferences/genres/add", url.Values{
		"genres":         {""},
		"favoriteMovies": {"Inception"},
		"actors":         {"Cillian Murphy"},
	})

	body := b.page()
	assert.Contains(t, body, tag("Inception"))
	assert.Contains(t, body, tag("Cillian Murphy"))
	assert.NotContains(t, body, tag(""))
}

func TestEnter(t *testing.T) {
	t.Run("adds pending list text", func(t *testing.T) {
		calls := 0
		rec := cinematch.RecommenderFunc(func(context.Context, cinematch.Preferences) (*cinematch.Result, error) {
			calls++
			return fiveItems(), nil
		})
		b, _ := newTestServer(t, rec)

		b.post("/enter", url.Values{"genres": {""}, "favoriteMovies": {"Heat"}, "mood": {"Tense"}})

		body := b.page()
		assert.Contains(t, body, tag("Heat"))
		assert.Contains(t, body, `value="Tense"`)
		assert.Contains(t, body, "Find your next favorite film.")
		assert.Zero(t, calls)
	})

	t.Run("submits when no list text is pending", func(t *testing.T) {
		b, _ := newTestServer(t, stub(fiveItems(), nil))

		b.post("/enter", url.Values{"genres": {""}, "favoriteMovies": {""}, "actors": {""}, "mood": {"Dark"}})

		require.Eventually(t, func() bool {
			return strings.Contains(b.page(), "5 curated picks")
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("form posts to enter first", func(t *testing.T) {
		b, _ := newTestServer(t, stub(fiveItems(), nil))
		body := b.page()

		enter := strings.Index(body, `formaction="/enter"`)
		add := strings.Index(body, `formaction="/preferences/genres/add"`)
		require.NotEqual(t, -1, enter)
		assert.Less(t, enter, add)
	})
}

func TestSubmit_IncludesPendingListText(t *testing.T) {
	var got cinematch.Preferences
	rec := cinematch.RecommenderFunc(func(_ context.Context, p cinematch.Preferences) (*cinematch.Result, error) {
		got = p
		return fiveItems(), nil
	})
	b, _ := newTestServer(t, rec)

	b.post("/submit", url.Values{"genres": {"Noir"}, "mood": {""}})

	require.Eventually(t, func() bool {
		return strings.Contains(b.page(), "5 curated picks")
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"Noir"}, got.Genres)
}

func TestUnknownField(t *testing.T) {
	b, _ := newTestServer(t, stub(fiveItems(), nil))
	rec := b.do(http.MethodPost, "/preferences/directors/add", url.Values{"value": {"Nolan"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmit_Validation(t *testing.T) {
	b, _ := newTestServer(t, stub(fiveItems(), nil))

	b.post("/preferences/actors/add", url.Values{"actors": {"Tilda Swinton"}})
	b.post("/submit", url.Values{"mood": {""}, "language": {"French"}})

	body := b.page()
	assert.Contains(t, body, "Please provide at least a genre, a favorite movie, or a mood.")
	assert.Contains(t, body, "Tilda Swinton")
}

func TestSubmit_Results(t *testing.T) {
	b, _ := newTestServer(t, stub(fiveItems(), nil))

	b.post("/preferences/genres/add", url.Values{"genres": {"Sci-Fi"}})
	b.post("/preferences/favoriteMovies/add", url.Values{"favoriteMovies": {"Inception"}})
	b.post("/submit", url.Values{"mood": {""}})

	var body string
	require.Eventually(t, func() bool {
		body = b.page()
		return strings.Contains(body, "curated picks")
	}, time.Second, 10*time.Millisecond)

	assert.Contains(t, body, "5 curated picks")
	assert.Contains(t, body, "https://picsum.photos/seed/BladeRunner2049/400/600")
	assert.Contains(t, body, "Not specified")
	assert.Contains(t, body, "Start Over")

	b.post("/restart", nil)
	body = b.page()
	assert.Contains(t, body, "Find your next favorite film.")
	assert.NotContains(t, body, `value="Inception"`)
}

func TestSubmit_Loading(t *testing.T) {
	release := make(chan struct{})
	rec := cinematch.RecommenderFunc(func(ctx context.Context, _ cinematch.Preferences) (*cinematch.Result, error) {
		<-release
		return fiveItems(), nil
	})
	b, _ := newTestServer(t, rec)

	b.post("/submit", url.Values{"mood": {"Inspiring"}})
	body := b.page()
	assert.Contains(t, body, "Analyzing your taste...")
	assert.Contains(t, body, `http-equiv="refresh"`)

	// edits while loading are ignored
	b.post("/preferences/genres/add", url.Values{"genres": {"Horror"}})

	close(release)
	require.Eventually(t, func() bool {
		return strings.Contains(b.page(), "5 curated picks")
	}, time.Second, 10*time.Millisecond)

	b.post("/new-search", nil)
	assert.NotContains(t, b.page(), "Horror")
}

func TestSubmit_RequestFailure(t *testing.T) {
	b, _ := newTestServer(t, stub(nil, &cinematch.RequestError{Op: "parse"}))

	b.post("/submit", url.Values{"mood": {"Dark"}})

	var body string
	require.Eventually(t, func() bool {
		body = b.page()
		return strings.Contains(body, cinematch.MsgRequest)
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, body, `value="Dark"`)
}

func TestHealthAndMetrics(t *testing.T) {
	b, _ := newTestServer(t, stub(fiveItems(), nil))

	rec := b.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])

	rec = b.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cinematch_http_request_duration_seconds")
}

func TestAPIMount(t *testing.T) {
	store := session.New(func(string) *flow.Flow { return flow.New(stub(fiveItems(), nil)) })
	called := false
	api := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusAccepted)
	})
	h := NewServer(store, WithAPI(api)).Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader("{}")))
	assert.True(t, called)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Zero(t, store.Len())
}

func TestAPICORS(t *testing.T) {
	store := session.New(func(string) *flow.Flow { return flow.New(stub(fiveItems(), nil)) })
	api := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := NewServer(store, WithAPI(api), WithCORSOrigins("https://app.example.com")).Routes()

	req := httptest.NewRequest(http.MethodOptions, "/api/recommend", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader("{}"))
	req.Header.Set("Origin", "https://other.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetrics_UnmatchedPathsShareALabel(t *testing.T) {
	b, _ := newTestServer(t, stub(fiveItems(), nil))

	for i := range 20 {
		rec := b.do(http.MethodGet, fmt.Sprintf("/scan/%d", i), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	body := b.do(http.MethodGet, "/metrics", nil).Body.String()
	assert.Contains(t, body, `route="not_found"`)
	assert.NotContains(t, body, `route="/scan/`)
}
