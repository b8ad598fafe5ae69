package transport

import (
	"context"

	"github.com/go-resty/resty/v2"
)

// RestyRoundTripper adapts resty.Client to RoundTripper.
type RestyRoundTripper struct {
	client *resty.Client
}

// NewRestyRoundTripper creates a round tripper with the base timeout from opts.
// Base URL and default headers are resolved by the Transport, not by resty.
func NewRestyRoundTripper(opts Options) *RestyRoundTripper {
	c := resty.New()
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	return &RestyRoundTripper{client: c}
}

// Client exposes the underlying resty client for callers needing custom settings.
func (r *RestyRoundTripper) Client() *resty.Client { return r.client }

// RoundTrip executes req with resty and converts the result.
func (r *RestyRoundTripper) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	target, err := req.URL()
	if err != nil {
		return nil, err
	}

	rr := r.client.R().SetContext(ctx)
	if len(req.Headers) > 0 {
		rr.SetHeaders(req.Headers)
	}
	if req.Body != nil {
		rr.SetBody(req.Body)
	}

	resp, err := rr.Execute(req.Method, target)
	if err != nil {
		return nil, classify(req, err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Headers:    flattenHeaders(resp.Header()),
		Body:       resp.Body(),
		Request:    req,
		Duration:   resp.Time(),
	}, nil
}
