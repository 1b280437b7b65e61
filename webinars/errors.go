package webinars

import (
	"fmt"
	"strings"
	"time"
)

// AuthError - the access token is invalid or expired. Not retried within a
// run; the operator has to re-authorise.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authorisation rejected (%d %s)", e.Status, e.Message)
}

// RateLimitError - the provider asked us to back off. Retried with backoff
// up to a bounded attempt count.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (retry after %v)", e.RetryAfter)
}

// ValidationError - the request was rejected as malformed. Recorded per-row,
// never retried.
type ValidationError struct {
	Status  int
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s (%s)", e.Message, strings.Join(e.Details, "; "))
	}

	return e.Message
}

// TransportError - the request never produced a usable response (network
// error, timeout). Retried once.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error (%v)", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
