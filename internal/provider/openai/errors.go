package openai

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/openai/openai-go"
	"github.com/spetersoncode/cinematch"
)

// RateLimitError is returned on a 429 that carries a Retry-After hint.
type RateLimitError struct {
	*cinematch.APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Unwrap() error {
	return e.APIError
}

// wrapError categorizes an OpenAI SDK error by status code.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		// network errors pass through
		return err
	}

	wrapped := cinematch.NewAPIError("openai", apiErr.StatusCode, err)
	if retryAfter := parseRetryAfter(apiErr.Response); retryAfter > 0 {
		return &RateLimitError{APIError: wrapped, RetryAfter: retryAfter}
	}
	return wrapped
}

// parseRetryAfter extracts the Retry-After duration from an HTTP response.
// Returns 0 if the header is not present or cannot be parsed.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	// HTTP-date form (RFC 7231)
	if t, err := http.ParseTime(header); err == nil {
		delay := time.Until(t)
		if delay > 0 {
			return delay
		}
	}

	return 0
}
