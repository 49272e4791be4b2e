package cinematch

import (
	"errors"
	"fmt"
)

// User-visible messages for the two recognized failure kinds.
const (
	MsgValidation = "Please provide at least a genre, a favorite movie, or a mood."
	MsgRequest    = "Failed to get recommendations. Please try again."
)

// ErrEmptyResponse is returned when the oracle produced no usable content.
var ErrEmptyResponse = errors.New("empty oracle response")

// ValidationError is returned when preferences are not submittable.
// No state transition happens when it is raised.
type ValidationError struct {
	Msg string
}

// Error returns the user-visible message.
func (e *ValidationError) Error() string {
	if e.Msg == "" {
		return MsgValidation
	}
	return e.Msg
}

// NewValidationError returns a ValidationError with the default message.
func NewValidationError() *ValidationError {
	return &ValidationError{Msg: MsgValidation}
}

// RequestError is returned when the oracle call fails or its reply cannot be
// parsed. Network failures, oracle-side errors and malformed output all
// collapse into this one kind.
type RequestError struct {
	Op    string // "generate" or "parse"
	Cause error
}

// Error returns a message describing the failed step.
func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("recommendation request failed (%s): %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("recommendation request failed (%s)", e.Op)
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the generic retry message shown to users.
func (e *RequestError) UserMessage() string {
	return MsgRequest
}

// UnmarshalError is returned when the oracle reply cannot be decoded into a
// Result. Content holds the raw reply for logging.
type UnmarshalError struct {
	Content string
	Err     error
}

func (e *UnmarshalError) Error() string {
	return fmt.Sprintf("failed to unmarshal oracle reply: %v", e.Err)
}

func (e *UnmarshalError) Unwrap() error {
	return e.Err
}

// ErrMissingAPIKey is returned when the configured provider has no API key.
type ErrMissingAPIKey struct {
	Provider string
}

func (e *ErrMissingAPIKey) Error() string {
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// IsValidation returns true if err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsRequestFailure returns true if err is or wraps a RequestError.
func IsRequestFailure(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

// UserMessage maps an error to the message shown to users.
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return MsgRequest
}

// ErrorCategory classifies oracle API failures for logging and metrics.
type ErrorCategory string

const (
	// ErrorTransient covers rate limits and server-side failures.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent covers authentication and unknown failures.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput covers requests the provider rejected as malformed.
	ErrorUserInput ErrorCategory = "user_input"
)

// APIError is a provider error carrying the HTTP status code.
type APIError struct {
	Provider   string
	StatusCode int
	Category   ErrorCategory
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d (%s): %v", e.Provider, e.StatusCode, e.Category, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError wraps err, categorizing it by status code.
func NewAPIError(provider string, statusCode int, err error) *APIError {
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Category:   CategorizeStatusCode(statusCode),
		Err:        err,
	}
}

// CategorizeStatusCode determines the error category from an HTTP status code.
func CategorizeStatusCode(code int) ErrorCategory {
	switch {
	case code == 429:
		return ErrorTransient // rate limited
	case code >= 500 && code < 600:
		return ErrorTransient
	case code == 401 || code == 403:
		return ErrorPermanent
	case code == 400 || code == 404 || code == 422:
		return ErrorUserInput
	default:
		return ErrorPermanent
	}
}
