package httpclient

import (
	"context"

	"github.com/samvad-hq/samvad-httpfacade/pkg/transport"
)

// Aliases so callers only import this package for everyday use.
type (
	Request       = transport.Request
	Response      = transport.Response
	RequestConfig = transport.RequestConfig
)

// API is the injectable client surface. *Client implements it; tests can swap in fakes.
type API interface {
	Get(ctx context.Context, path string, cfg RequestConfig) (*Response, error)
	Post(ctx context.Context, path string, body any, cfg *RequestConfig) (*Response, error)
}

// Logger defines the logging capability the client holds for override handlers.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) InfoObj(string, string, interface{})  {}
func (NopLogger) DebugObj(string, string, interface{}) {}
func (NopLogger) WarnObj(string, string, interface{})  {}
func (NopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return NopLogger{}
	}
	return log
}
