package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Error codes attached to transport failures.
const (
	CodeInvalidURL  = "ERR_INVALID_URL"
	CodeNetwork     = "ERR_NETWORK"
	CodeTimeout     = "ETIMEDOUT"
	CodeCanceled    = "ERR_CANCELED"
	CodeBadRequest  = "ERR_BAD_REQUEST"
	CodeBadResponse = "ERR_BAD_RESPONSE"
)

// Error is the failure value passed through rejection hooks. It carries whatever
// context the transport had when the call failed.
type Error struct {
	Code    string
	Message string
	// Request is the descriptor that failed, if one was built.
	Request *Request
	// Response is set when the server answered but the call still failed.
	Response *Response
	Err      error
}

func (e *Error) Error() string {
	if e.Response != nil {
		return fmt.Sprintf("transport: %s (HTTP %d): %s", e.Code, e.Response.StatusCode, e.Message)
	}
	return fmt.Sprintf("transport: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf returns the transport code carried by err, or "" when err is not a transport error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ResponseOf returns the response attached to a transport error, if any.
func ResponseOf(err error) *Response {
	var e *Error
	if errors.As(err, &e) {
		return e.Response
	}
	return nil
}

// RequestOf returns the descriptor attached to a transport error, if any.
func RequestOf(err error) *Request {
	var e *Error
	if errors.As(err, &e) {
		return e.Request
	}
	return nil
}

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool { return CodeOf(err) == CodeTimeout }

// statusError builds the failure for a response rejected by ValidateStatus.
func statusError(req *Request, resp *Response) *Error {
	code := CodeBadResponse
	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
		code = CodeBadRequest
	}
	return &Error{
		Code:     code,
		Message:  fmt.Sprintf("request failed with status code %d", resp.StatusCode),
		Request:  req,
		Response: resp,
	}
}

// classify maps a round-trip failure onto a transport code.
func classify(req *Request, err error) *Error {
	code := CodeNetwork
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		code = CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = CodeTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		code = CodeTimeout
	}
	return &Error{
		Code:    code,
		Message: err.Error(),
		Request: req,
		Err:     err,
	}
}
