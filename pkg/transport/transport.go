package transport

import (
	"context"
	"net/http"
	"time"
)

// Options configures a transport instance once, at construction.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
}

// RoundTripper performs the network I/O for a prepared descriptor.
type RoundTripper interface {
	RoundTrip(ctx context.Context, req *Request) (*Response, error)
}

// RoundTripperFunc adapts a function to RoundTripper.
type RoundTripperFunc func(ctx context.Context, req *Request) (*Response, error)

func (f RoundTripperFunc) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Transport sends requests through its interceptor chains and a RoundTripper.
// It is safe for concurrent use; options are read-only after New.
type Transport struct {
	Interceptors Interceptors

	opts Options
	rt   RoundTripper
}

// New creates a transport scoped to opts. A nil rt selects the resty round tripper.
func New(opts Options, rt RoundTripper) *Transport {
	opts.Headers = copyMap(opts.Headers)
	if rt == nil {
		rt = NewRestyRoundTripper(opts)
	}
	return &Transport{opts: opts, rt: rt}
}

// Options returns a copy of the construction options.
func (t *Transport) Options() Options {
	o := t.opts
	o.Headers = copyMap(t.opts.Headers)
	return o
}

// Get sends a GET request for path.
func (t *Transport) Get(ctx context.Context, path string, cfg *RequestConfig) (*Response, error) {
	return t.send(ctx, http.MethodGet, path, nil, cfg)
}

// Post sends body to path. Serialization is left to the round tripper.
func (t *Transport) Post(ctx context.Context, path string, body any, cfg *RequestConfig) (*Response, error) {
	return t.send(ctx, http.MethodPost, path, body, cfg)
}

// Do runs a caller-built descriptor through the pipeline. Empty BaseURL and
// missing default headers are filled from the transport options.
func (t *Transport) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, &Error{Code: CodeInvalidURL, Message: "nil request"}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cp := *req
	cp.ctx = ctx
	cp.done = &completion{}
	if cp.Method == "" {
		cp.Method = http.MethodGet
	}
	if cp.BaseURL == "" {
		cp.BaseURL = t.opts.BaseURL
	}
	cp.Headers = mergeHeaders(t.opts.Headers, req.Headers)
	cp.Query = copyMap(req.Query)
	return t.execute(&cp)
}

func (t *Transport) send(ctx context.Context, method, path string, body any, cfg *RequestConfig) (*Response, error) {
	return t.execute(t.newRequest(ctx, method, path, body, cfg))
}

func (t *Transport) execute(req *Request) (*Response, error) {
	done := req.done
	_, err := req.URL()

	req, err = runRequestChain(t.Interceptors.Request.snapshot(), req, err)

	var resp *Response
	if err == nil {
		resp, err = t.dispatch(req)
	}
	resp, err = runResponseChain(t.Interceptors.Response.snapshot(), resp, err)

	done.run(resp, err)
	if req != nil && req.done != done {
		req.done.run(resp, err)
	}
	return resp, err
}

func (t *Transport) newRequest(ctx context.Context, method, path string, body any, cfg *RequestConfig) *Request {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg == nil {
		cfg = &RequestConfig{}
	}
	return &Request{
		Method:         method,
		BaseURL:        t.opts.BaseURL,
		Path:           path,
		Headers:        mergeHeaders(t.opts.Headers, cfg.Headers),
		Query:          copyMap(cfg.Query),
		Timeout:        cfg.Timeout,
		Body:           body,
		ValidateStatus: cfg.ValidateStatus,
		ctx:            ctx,
		done:           &completion{},
	}
}

func (t *Transport) dispatch(req *Request) (*Response, error) {
	if _, err := req.URL(); err != nil {
		return nil, err
	}

	ctx := req.Context()
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := t.rt.RoundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, &Error{Code: CodeNetwork, Message: "nil response", Request: req}
	}
	if resp.Request == nil {
		resp.Request = req
	}
	if resp.Duration == 0 {
		resp.Duration = time.Since(start)
	}
	if !req.validStatus(resp.StatusCode) {
		return nil, statusError(req, resp)
	}
	return resp, nil
}
