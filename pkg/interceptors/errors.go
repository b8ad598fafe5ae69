package interceptors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/samvad-hq/samvad-httpfacade/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpfacade/pkg/transport"
)

// Error classes assigned by NormalizeErrors.
const (
	ClassAuth       = "auth"
	ClassNotFound   = "not_found"
	ClassRateLimit  = "rate_limit"
	ClassValidation = "validation"
	ClassServer     = "server"
	ClassTimeout    = "timeout"
	ClassConnection = "connection"
	ClassCanceled   = "canceled"
	ClassUnknown    = "unknown"
)

// NormalizedError is a classified failure.
type NormalizedError struct {
	// Code is one of the Class* constants.
	Code string
	// StatusCode is the HTTP status (0 when no response arrived).
	StatusCode int
	Message    string
	Retryable  bool
	Err        error
}

func (e *NormalizedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *NormalizedError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was classified as retryable.
func IsRetryable(err error) bool {
	var e *NormalizedError
	return errors.As(err, &e) && e.Retryable
}

// NormalizeErrors installs rejected hooks that classify every failure.
func NormalizeErrors() httpclient.HandlerOverrides {
	return httpclient.HandlerOverrides{
		RequestRejected:  func(err error) error { return Normalize(err) },
		ResponseRejected: func(err error) (*transport.Response, error) { return nil, Normalize(err) },
	}
}

// Normalize classifies err. Already normalized errors are returned as is.
func Normalize(err error) *NormalizedError {
	if err == nil {
		return nil
	}
	var ne *NormalizedError
	if errors.As(err, &ne) {
		return ne
	}

	out := &NormalizedError{Code: ClassUnknown, Message: err.Error(), Err: err}
	if resp := transport.ResponseOf(err); resp != nil {
		out.StatusCode = resp.StatusCode
		out.Code, out.Retryable = classifyStatus(resp.StatusCode)
		return out
	}

	switch transport.CodeOf(err) {
	case transport.CodeTimeout:
		out.Code, out.Retryable = ClassTimeout, true
	case transport.CodeNetwork:
		out.Code, out.Retryable = ClassConnection, true
	case transport.CodeCanceled:
		out.Code = ClassCanceled
	case transport.CodeInvalidURL:
		out.Code = ClassValidation
	default:
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			out.Code, out.Retryable = ClassTimeout, true
		case errors.Is(err, context.Canceled):
			out.Code = ClassCanceled
		}
	}
	return out
}

func classifyStatus(status int) (string, bool) {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ClassAuth, false
	case status == http.StatusNotFound:
		return ClassNotFound, false
	case status == http.StatusTooManyRequests:
		return ClassRateLimit, true
	case status >= 400 && status < 500:
		return ClassValidation, false
	case status >= 500:
		return ClassServer, true
	default:
		return ClassUnknown, false
	}
}
