package answers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"

	"golang.org/x/oauth2"
)

// Upstream failure kinds.
const (
	KindUnavailable = "unavailable" // connection refused or host not found
	KindStatus      = "status"      // the API answered with a non-2xx status
	KindTimeout     = "timeout"
	KindInternal    = "internal"
)

// UpstreamError describes a failed call to the external answer API.
type UpstreamError struct {
	Kind       string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("answer api returned status %d", e.StatusCode)
	}
	if e.Err == nil {
		return "answer api " + e.Kind
	}
	return fmt.Sprintf("answer api %s: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// HTTPStatus maps the failure to the status returned to the widget.
func (e *UpstreamError) HTTPStatus() int {
	switch e.Kind {
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindTimeout:
		return http.StatusRequestTimeout
	case KindStatus:
		if e.StatusCode == http.StatusTooManyRequests {
			return http.StatusTooManyRequests
		}
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message is the user-facing error text for the failure.
func (e *UpstreamError) Message() string {
	switch e.Kind {
	case KindUnavailable:
		return "Service temporarily unavailable. Please try again later."
	case KindTimeout:
		return "Request timeout. Please try again."
	case KindStatus:
		switch e.StatusCode {
		case http.StatusUnauthorized:
			return "Authentication error with external service."
		case http.StatusTooManyRequests:
			return "External service rate limit exceeded. Please try again later."
		}
		return "External service error. Please try again later."
	default:
		return "Internal server error. Please try again later."
	}
}

// classify wraps a transport error from the answer API.
func classify(err error) *UpstreamError {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		code := http.StatusUnauthorized
		if retrieveErr.Response != nil {
			code = retrieveErr.Response.StatusCode
		}
		return &UpstreamError{Kind: KindStatus, StatusCode: code, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamError{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &UpstreamError{Kind: KindTimeout, Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) || errors.Is(err, syscall.ECONNREFUSED) {
		return &UpstreamError{Kind: KindUnavailable, Err: err}
	}

	return &UpstreamError{Kind: KindInternal, Err: err}
}
