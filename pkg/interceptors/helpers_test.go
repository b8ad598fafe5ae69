package interceptors

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-httpfacade/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpfacade/pkg/transport"
)

func newClient(t *testing.T, overrides *httpclient.HandlerOverrides, rt transport.RoundTripperFunc) *httpclient.Client {
	t.Helper()
	c, err := httpclient.New(nil, httpclient.ClientConfig{
		BaseURL:  "https://api.example.com",
		Timeout:  time.Second,
		Handlers: overrides,
	}, httpclient.WithRoundTripper(rt))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// respond returns a round tripper answering every call with status and body.
func respond(status int, body string) transport.RoundTripperFunc {
	return func(_ context.Context, req *transport.Request) (*transport.Response, error) {
		return &transport.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Body:       []byte(body),
			Request:    req,
			Duration:   5 * time.Millisecond,
		}, nil
	}
}

func fail(code string) transport.RoundTripperFunc {
	return func(_ context.Context, req *transport.Request) (*transport.Response, error) {
		return nil, &transport.Error{Code: code, Message: "boom", Request: req, Err: errors.New("boom")}
	}
}

type memLogger struct {
	mu   sync.Mutex
	keys []string
}

func (l *memLogger) add(key string) {
	l.mu.Lock()
	l.keys = append(l.keys, key)
	l.mu.Unlock()
}

func (l *memLogger) InfoObj(_, key string, _ interface{})  { l.add(key) }
func (l *memLogger) DebugObj(_, key string, _ interface{}) { l.add(key) }
func (l *memLogger) WarnObj(_, key string, _ interface{})  { l.add(key) }
func (l *memLogger) ErrorObj(_, key string, _ interface{}) { l.add(key) }
