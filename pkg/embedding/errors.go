package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrDimensionMismatch   = errors.New("embedding: vector dimensions differ")
	ErrProviderUnavailable = errors.New("embedding: provider not configured")
	ErrEmptyInput          = errors.New("embedding: empty input text")
)

const maxErrorBody = 512

// StatusError is a non-200 answer from an embedding API.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func NewStatusError(provider string, statusCode int, body []byte) *StatusError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &StatusError{Provider: provider, StatusCode: statusCode, Body: string(body)}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// Rejected reports a client error that repeats for the same input.
// Timeouts and rate limits are not rejections.
func (e *StatusError) Rejected() bool {
	if e.StatusCode == http.StatusRequestTimeout || e.StatusCode == http.StatusTooManyRequests {
		return false
	}
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// countsAsFailure decides whether err should move the circuit breaker.
func countsAsFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) && se.Rejected() {
		return false
	}
	return true
}
