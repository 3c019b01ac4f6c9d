package api

import (
	"errors"
	"fmt"
)

// AuthError is a 401 from the card service. Never retried; the caller
// must re-authenticate.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return "authentication failed: " + e.Message
	}
	return "authentication failed"
}

// NotFoundError is a 404 from the card service: the target deck or
// record vanished. Never retried.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return "not found: " + e.Message
	}
	return "not found"
}

// RateLimitError is a 429. Retryable with the same backoff as server
// errors.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return "rate limited: " + e.Message
	}
	return "rate limited"
}

// ServerError is any other non-2xx response. 5xx are retryable; the rest
// fail immediately carrying the server-provided message when present.
type ServerError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// retryable reports whether an error may be retried within the attempt
// budget. Transport errors arrive as plain errors and are retryable;
// typed auth/not-found errors and non-5xx server errors are not.
func retryable(err error) bool {
	var rateLimit *RateLimitError
	if errors.As(err, &rateLimit) {
		return true
	}
	var server *ServerError
	if errors.As(err, &server) {
		return server.Status >= 500
	}
	if IsAuthError(err) || IsNotFound(err) {
		return false
	}
	// Anything else is a transport-level failure.
	return true
}
