package interceptors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-httpfacade/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpfacade/pkg/transport"
)

// TokenSource yields the bearer token for one request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken always returns token.
func StaticToken(token string) TokenSource {
	return TokenSourceFunc(func(context.Context) (string, error) { return token, nil })
}

// BearerToken sets the Authorization header from source on every request.
// A source failure fails the request phase.
func BearerToken(source TokenSource) httpclient.HandlerOverrides {
	return httpclient.HandlerOverrides{
		RequestFulfilled: func(req *transport.Request) (*transport.Request, error) {
			if source == nil {
				return nil, errors.New("interceptors: bearer token source is nil")
			}
			token, err := source.Token(req.Context())
			if err != nil {
				return nil, fmt.Errorf("interceptors: bearer token: %w", err)
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return nil, errors.New("interceptors: bearer token is empty")
			}
			req.SetHeader("Authorization", "Bearer "+token)
			return req, nil
		},
	}
}

// StaticHeaders sets headers on every request, overriding per-call values.
func StaticHeaders(headers map[string]string) httpclient.HandlerOverrides {
	fixed := make(map[string]string, len(headers))
	for k, v := range headers {
		fixed[k] = v
	}
	return httpclient.HandlerOverrides{
		RequestFulfilled: func(req *transport.Request) (*transport.Request, error) {
			for k, v := range fixed {
				req.SetHeader(k, v)
			}
			return req, nil
		},
	}
}
