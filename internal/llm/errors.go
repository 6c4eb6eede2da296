package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

var (
	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = errors.New("llm rate limited")

	// ErrAuth indicates the provider rejected the credentials.
	ErrAuth = errors.New("llm authentication failed")

	// ErrUnavailable indicates a transient provider or transport failure.
	ErrUnavailable = errors.New("llm unavailable")

	// ErrEmptyResponse indicates the provider returned no content.
	ErrEmptyResponse = errors.New("llm empty response")

	// ErrBadRequest indicates the provider rejected the request itself.
	ErrBadRequest = errors.New("llm bad request")
)

// ProviderError carries the provider name and HTTP status behind a classified failure.
type ProviderError struct {
	Provider   string
	StatusCode int
	Kind       error
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: http status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

// Is matches the classified kind so callers can use errors.Is(err, ErrRateLimited).
func (e *ProviderError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Classify maps an HTTP status to a failure kind. Unknown statuses return nil.
func Classify(status int) error {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrAuth
	case status == http.StatusRequestTimeout || status >= 500:
		return ErrUnavailable
	case status >= 400:
		return ErrBadRequest
	}
	return nil
}

// Wrap builds a ProviderError from a raw provider failure.
func Wrap(provider string, status int, err error) error {
	if err == nil {
		return nil
	}
	kind := Classify(status)
	if kind == nil && isTransportFailure(err) {
		kind = ErrUnavailable
	}
	return &ProviderError{Provider: provider, StatusCode: status, Kind: kind, Err: err}
}

// IsTransient reports whether a transport retry may succeed. Rate limiting is not
// transient: the provider asked the caller to back off.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrAuth) || errors.Is(err, ErrBadRequest) || errors.Is(err, ErrEmptyResponse) {
		return false
	}
	return isTransportFailure(err)
}

func isTransportFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection reset", "connection refused", "broken pipe", "tls handshake timeout", "unexpected eof"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
