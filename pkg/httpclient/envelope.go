package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/samvad-hq/samvad-httpfacade/pkg/transport"
)

// Envelope is a response whose body has been decoded into T.
type Envelope[T any] struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       T
	Raw        *Response
}

// Get issues a GET through api and decodes the body into T.
func Get[T any](ctx context.Context, api API, path string, cfg RequestConfig) (*Envelope[T], error) {
	resp, err := api.Get(ctx, path, cfg)
	if err != nil {
		return nil, err
	}
	return NewEnvelope[T](resp)
}

// Post sends body through api and decodes the response into T.
func Post[T, U any](ctx context.Context, api API, path string, body U, cfg *RequestConfig) (*Envelope[T], error) {
	resp, err := api.Post(ctx, path, body, cfg)
	if err != nil {
		return nil, err
	}
	return NewEnvelope[T](resp)
}

// NewEnvelope decodes resp.Body into T. string and []byte bodies are taken as-is;
// anything else is JSON. An empty body leaves the zero value.
func NewEnvelope[T any](resp *Response) (*Envelope[T], error) {
	env := &Envelope[T]{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    resp.Headers,
		Raw:        resp,
	}

	switch p := any(&env.Body).(type) {
	case *string:
		*p = string(resp.Body)
	case *[]byte:
		*p = resp.Body
	default:
		if len(bytes.TrimSpace(resp.Body)) == 0 {
			return env, nil
		}
		if err := json.Unmarshal(resp.Body, &env.Body); err != nil {
			return nil, &transport.Error{
				Code:     transport.CodeBadResponse,
				Message:  fmt.Sprintf("decode response body: %v", err),
				Request:  resp.Request,
				Response: resp,
				Err:      err,
			}
		}
	}
	return env, nil
}
