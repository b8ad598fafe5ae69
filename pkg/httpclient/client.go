package httpclient

import (
	"context"

	"github.com/samvad-hq/samvad-httpfacade/pkg/transport"
)

// Client is a thin facade over a single transport instance with one request and
// one response interceptor pair installed.
type Client struct {
	log       Logger
	transport *transport.Transport
	handlers  Handlers
}

// Option customizes client construction.
type Option func(*options)

type options struct {
	roundTripper transport.RoundTripper
}

// WithRoundTripper replaces the resty round tripper, mostly for tests.
func WithRoundTripper(rt transport.RoundTripper) Option {
	return func(o *options) { o.roundTripper = rt }
}

// New creates a client owning one transport scoped to cfg.
func New(log Logger, cfg ClientConfig, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{log: ensureLogger(log)}
	c.transport = transport.New(transport.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Headers: cfg.Headers,
	}, o.roundTripper)

	c.handlers = ResolveHandlers(cfg.Handlers, c.defaultHandlers())
	c.transport.Interceptors.Request.Use(transport.RequestInterceptor{
		Fulfilled: c.handlers.RequestFulfilled,
		Rejected:  c.handlers.RequestRejected,
	})
	c.transport.Interceptors.Response.Use(transport.ResponseInterceptor{
		Fulfilled: c.handlers.ResponseFulfilled,
		Rejected:  c.handlers.ResponseRejected,
	})
	return c, nil
}

// Get sends a GET for path. cfg is required; pass the zero value for defaults.
func (c *Client) Get(ctx context.Context, path string, cfg RequestConfig) (*Response, error) {
	return c.transport.Get(ctx, path, &cfg)
}

// Post sends body to path. A nil cfg uses the transport defaults.
func (c *Client) Post(ctx context.Context, path string, body any, cfg *RequestConfig) (*Response, error) {
	return c.transport.Post(ctx, path, body, cfg)
}

// Logger returns the logger handed to New.
func (c *Client) Logger() Logger { return c.log }

// Handlers returns the resolved hook set installed on the transport.
func (c *Client) Handlers() Handlers { return c.handlers }

func (c *Client) defaultHandlers() Handlers {
	return Handlers{
		RequestFulfilled:  c.requestFulfilled,
		RequestRejected:   c.requestRejected,
		ResponseFulfilled: c.responseFulfilled,
		ResponseRejected:  c.responseRejected,
	}
}

func (c *Client) requestFulfilled(req *Request) (*Request, error) { return req, nil }

func (c *Client) requestRejected(err error) error { return err }

func (c *Client) responseFulfilled(resp *Response) (*Response, error) { return resp, nil }

func (c *Client) responseRejected(err error) (*Response, error) { return nil, err }
