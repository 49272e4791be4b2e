package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spetersoncode/cinematch"
)

// Outcome classifies a finished Recommend call for observers.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeOracleError Outcome = "oracle_error"
	OutcomeParseError  Outcome = "parse_error"
)

// Observer is notified once per Recommend call.
type Observer func(outcome Outcome, elapsed time.Duration)

// Option configures a Client.
type Option func(*Client)

// WithOracleOptions sets options passed on every oracle call.
func WithOracleOptions(opts ...cinematch.Option) Option {
	return func(c *Client) {
		c.oracleOpts = append(c.oracleOpts, opts...)
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithObserver registers an observer for call outcomes.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observers = append(c.observers, o)
	}
}

// Client builds prompts from preferences, calls the oracle once and parses
// its reply. It holds no per-request state and is safe for concurrent use.
type Client struct {
	oracle     cinematch.Oracle
	oracleOpts []cinematch.Option
	log        *slog.Logger
	observers  []Observer
	schema     *cinematch.ResponseSchema
}

// New creates a Client that sends requests to oracle.
func New(oracle cinematch.Oracle, opts ...Option) *Client {
	c := &Client{
		oracle: oracle,
		log:    slog.Default(),
		schema: ResponseSchema(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Recommend asks the oracle for recommendations matching prefs.
// There is a single attempt; any failure is returned as *cinematch.RequestError.
func (c *Client) Recommend(ctx context.Context, prefs cinematch.Preferences) (*cinematch.Result, error) {
	start := time.Now()
	log := c.log.With("genres", len(prefs.Genres), "favorite_movies", len(prefs.FavoriteMovies))

	content, err := c.oracle.Generate(ctx, cinematch.Request{
		Prompt: BuildPrompt(prefs),
		Schema: c.schema,
	}, c.oracleOpts...)
	if err != nil {
		c.notify(OutcomeOracleError, start)
		log.Error("oracle call failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, &cinematch.RequestError{Op: "generate", Cause: err}
	}

	result, err := Parse(content)
	if err != nil {
		c.notify(OutcomeParseError, start)
		log.Error("oracle reply rejected", "error", err, "content_len", len(content))
		return nil, &cinematch.RequestError{Op: "parse", Cause: err}
	}

	c.notify(OutcomeSuccess, start)
	if !result.MeetsContract(prefs) {
		log.Warn("oracle reply does not meet prompt contract", "recommendations", result.Len())
	}
	log.Info("recommendations received", "recommendations", result.Len(), "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

func (c *Client) notify(o Outcome, start time.Time) {
	elapsed := time.Since(start)
	for _, obs := range c.observers {
		obs(o, elapsed)
	}
}

// reply mirrors cinematch.Result with pointer fields so missing keys are
// distinguishable from empty ones.
type reply struct {
	Summary         *cinematch.Summary `json:"summary"`
	Recommendations *[]cinematch.Item  `json:"recommendations"`
}

// Parse decodes an oracle reply into a Result.
// An empty reply is decoded as "{}" and therefore fails on the missing keys.
func Parse(content string) (*cinematch.Result, error) {
	text := stripFence(strings.TrimSpace(content))
	if text == "" {
		text = "{}"
	}

	var r reply
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return nil, &cinematch.UnmarshalError{Content: content, Err: err}
	}
	if r.Summary == nil || r.Recommendations == nil {
		return nil, &cinematch.UnmarshalError{
			Content: content,
			Err:     errors.Join(cinematch.ErrEmptyResponse, errors.New("missing summary or recommendations")),
		}
	}
	return &cinematch.Result{Summary: *r.Summary, Recommendations: *r.Recommendations}, nil
}

// stripFence removes a surrounding markdown code fence, which some models add
// even in JSON mode.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var _ cinematch.Recommender = (*Client)(nil)
