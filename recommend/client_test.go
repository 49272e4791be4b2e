package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spetersoncode/cinematch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOracle returns a canned reply and records the request it saw.
type stubOracle struct {
	reply string
	err   error

	calls int
	last  cinematch.Request
	opts  *cinematch.Options
}

func (s *stubOracle) Generate(_ context.Context, req cinematch.Request, opts ...cinematch.Option) (string, error) {
	s.calls++
	s.last = req
	s.opts = cinematch.ApplyOptions(opts...)
	return s.reply, s.err
}

func validReply(t *testing.T, n int) string {
	t.Helper()
	r := cinematch.Result{
		Summary:         cinematch.Summary{Genres: "Sci-Fi", FavoriteMovies: "Inception"},
		Recommendations: []cinematch.Item{},
	}
	for i := range n {
		r.Recommendations = append(r.Recommendations, cinematch.Item{
			Title:          fmt.Sprintf("Movie %d", i+1),
			Year:           "2010",
			Genre:          "Sci-Fi",
			WhyRecommended: "Layered plot",
			SimilarTo:      "Inception",
		})
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	return string(data)
}

func sciFiPrefs() cinematch.Preferences {
	var p cinematch.Preferences
	p.Add(cinematch.FieldGenres, "Sci-Fi")
	p.Add(cinematch.FieldFavoriteMovies, "Inception")
	return p
}

func TestClient_Recommend(t *testing.T) {
	t.Run("parses a schema-valid reply", func(t *testing.T) {
		oracle := &stubOracle{reply: validReply(t, 5)}
		c := New(oracle)

		result, err := c.Recommend(context.Background(), sciFiPrefs())
		require.NoError(t, err)

		assert.Equal(t, 1, oracle.calls)
		assert.Len(t, result.Recommendations, 5)
		assert.Equal(t, "Sci-Fi", result.Summary.Genres)
		assert.Contains(t, oracle.last.Prompt, "Sci-Fi")
		assert.Contains(t, oracle.last.Prompt, "Inception")
		require.NotNil(t, oracle.last.Schema)
		assert.Equal(t, SchemaName, oracle.last.Schema.Name)
	})

	t.Run("item count follows the reply", func(t *testing.T) {
		for _, n := range []int{0, 3, 7} {
			c := New(&stubOracle{reply: validReply(t, n)})
			result, err := c.Recommend(context.Background(), sciFiPrefs())
			require.NoError(t, err)
			assert.Equal(t, n, result.Len())
		}
	})

	t.Run("null recommendations is a request failure", func(t *testing.T) {
		c := New(&stubOracle{reply: `{"summary":{"genres":"Sci-Fi"},"recommendations":null}`})

		result, err := c.Recommend(context.Background(), sciFiPrefs())
		assert.Nil(t, result)

		var re *cinematch.RequestError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "parse", re.Op)
		assert.ErrorIs(t, err, cinematch.ErrEmptyResponse)
	})

	t.Run("oracle failure is a request failure", func(t *testing.T) {
		cause := errors.New("503 service unavailable")
		c := New(&stubOracle{err: cause})

		result, err := c.Recommend(context.Background(), sciFiPrefs())
		assert.Nil(t, result)
		require.Error(t, err)

		var re *cinematch.RequestError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "generate", re.Op)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("malformed reply is a request failure", func(t *testing.T) {
		c := New(&stubOracle{reply: `{"summary": {`})

		_, err := c.Recommend(context.Background(), sciFiPrefs())
		var re *cinematch.RequestError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "parse", re.Op)

		var ue *cinematch.UnmarshalError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, `{"summary": {`, ue.Content)
	})

	t.Run("passes oracle options through", func(t *testing.T) {
		oracle := &stubOracle{reply: validReply(t, 5)}
		c := New(oracle, WithOracleOptions(cinematch.WithModel("gemini-2.5-pro"), cinematch.WithTemperature(0.4)))

		_, err := c.Recommend(context.Background(), sciFiPrefs())
		require.NoError(t, err)
		assert.Equal(t, "gemini-2.5-pro", oracle.opts.Model)
		require.NotNil(t, oracle.opts.Temperature)
		assert.Equal(t, 0.4, *oracle.opts.Temperature)
	})

	t.Run("observers see every outcome", func(t *testing.T) {
		var seen []Outcome
		obs := WithObserver(func(o Outcome, _ time.Duration) { seen = append(seen, o) })

		_, _ = New(&stubOracle{reply: validReply(t, 5)}, obs).Recommend(context.Background(), sciFiPrefs())
		_, _ = New(&stubOracle{err: errors.New("down")}, obs).Recommend(context.Background(), sciFiPrefs())
		_, _ = New(&stubOracle{reply: "not json"}, obs).Recommend(context.Background(), sciFiPrefs())

		assert.Equal(t, []Outcome{OutcomeSuccess, OutcomeOracleError, OutcomeParseError}, seen)
	})

	t.Run("does not enforce the five item contract", func(t *testing.T) {
		prefs := sciFiPrefs()
		reply := `{"summary":{},"recommendations":[{"title":"Inception"}]}`
		result, err := New(&stubOracle{reply: reply}).Recommend(context.Background(), prefs)
		require.NoError(t, err)
		assert.False(t, result.MeetsContract(prefs))
	})
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantLen int
		wantErr bool
	}{
		{"empty reply", "", 0, true},
		{"whitespace reply", "  \n", 0, true},
		{"empty object", "{}", 0, true},
		{"missing recommendations", `{"summary":{}}`, 0, true},
		{"missing summary", `{"recommendations":[]}`, 0, true},
		{"null recommendations", `{"summary":{},"recommendations":null}`, 0, true},
		{"wrong type", `{"summary":"x","recommendations":[]}`, 0, true},
		{"empty list", `{"summary":{},"recommendations":[]}`, 0, false},
		{"fenced", "```json\n{\"summary\":{},\"recommendations\":[{\"title\":\"Heat\"}]}\n```", 1, false},
		{"unknown keys ignored", `{"summary":{"extra":"x"},"recommendations":[{"title":"Heat","rating":9}],"note":"hi"}`, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.content)
			if tt.wantErr {
				var ue *cinematch.UnmarshalError
				assert.ErrorAs(t, err, &ue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, result.Len())
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Run("joins lists and inserts scalars", func(t *testing.T) {
		p := sciFiPrefs()
		p.Add(cinematch.FieldGenres, "Drama")
		p.Add(cinematch.FieldActors, "Cillian Murphy")
		p.Set(cinematch.ScalarLanguage, "English")
		p.Set(cinematch.ScalarYearRange, "2010-2020")
		p.Set(cinematch.ScalarMood, "Thoughtful")

		prompt := BuildPrompt(p)
		assert.Contains(t, prompt, "- Genres: Sci-Fi, Drama\n")
		assert.Contains(t, prompt, "- Favorite Movies: Inception\n")
		assert.Contains(t, prompt, "- Favorite Actors: Cillian Murphy\n")
		assert.Contains(t, prompt, "- Language: English\n")
		assert.Contains(t, prompt, "- Year Range: 2010-2020\n")
		assert.Contains(t, prompt, "- Mood: Thoughtful\n")
		assert.Contains(t, prompt, "recommend at least 5 movies")
	})

	t.Run("empty lists render as empty strings", func(t *testing.T) {
		prompt := BuildPrompt(cinematch.Preferences{Mood: "Funny"})
		assert.Contains(t, prompt, "- Genres: \n")
		assert.Contains(t, prompt, "- Favorite Actors: \n")
		assert.Contains(t, prompt, "- Mood: Funny\n")
	})

	t.Run("does not escape user text", func(t *testing.T) {
		prompt := BuildPrompt(cinematch.Preferences{FavoriteMovies: []string{`Tom & Jerry "<3"`}})
		assert.Contains(t, prompt, `Tom & Jerry "<3"`)
	})

	t.Run("includes the reply shape", func(t *testing.T) {
		prompt := BuildPrompt(cinematch.Preferences{})
		for _, key := range []string{"summary", "recommendations", "whyRecommended", "similarTo", "yearRange"} {
			assert.True(t, strings.Contains(prompt, `"`+key+`"`), key)
		}
	})
}

func TestResponseSchema(t *testing.T) {
	rs := ResponseSchema()
	require.NotNil(t, rs)

	var doc struct {
		Type       string   `json:"type"`
		Required   []string `json:"required"`
		Properties struct {
			Summary struct {
				Type     string   `json:"type"`
				Required []string `json:"required"`
			} `json:"summary"`
			Recommendations struct {
				Type  string `json:"type"`
				Items struct {
					Type     string   `json:"type"`
					Required []string `json:"required"`
				} `json:"items"`
			} `json:"recommendations"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(rs.Schema, &doc))

	assert.Equal(t, "object", doc.Type)
	assert.Equal(t, []string{"summary", "recommendations"}, doc.Required)
	assert.Equal(t, "object", doc.Properties.Summary.Type)
	assert.Equal(t, []string{"genres", "mood", "favoriteMovies", "language", "yearRange"}, doc.Properties.Summary.Required)
	assert.Equal(t, "array", doc.Properties.Recommendations.Type)
	assert.Equal(t, "object", doc.Properties.Recommendations.Items.Type)
	assert.Equal(t, []string{"title", "year", "genre", "whyRecommended", "similarTo"}, doc.Properties.Recommendations.Items.Required)
}
