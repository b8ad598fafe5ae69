package transport

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
)

// RequestConfig carries per-call overrides layered on top of the transport defaults.
type RequestConfig struct {
	Headers map[string]string
	Query   map[string]string
	// Timeout overrides the transport timeout for a single call when positive.
	Timeout time.Duration
	// ValidateStatus decides which status codes count as success. Defaults to 2xx.
	ValidateStatus func(status int) bool
}

// Request describes an outbound call. Request interceptors may mutate it (or
// return a replacement) before it is sent.
type Request struct {
	Method         string
	BaseURL        string
	Path           string
	Headers        map[string]string
	Query          map[string]string
	Timeout        time.Duration
	Body           any
	ValidateStatus func(status int) bool

	ctx  context.Context
	done *completion
}

// completion holds the callbacks of one call. Copies of a descriptor share it.
type completion struct {
	mu  sync.Mutex
	fns []func(*Response, error)
}

func (c *completion) run(resp *Response, err error) {
	if c == nil {
		return
	}
	c.mu.Lock()
	fns := c.fns
	c.fns = nil
	c.mu.Unlock()
	for _, fn := range fns {
		fn(resp, err)
	}
}

// Context returns the request context, never nil.
func (r *Request) Context() context.Context {
	if r == nil || r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// WithContext returns a shallow copy of r carrying ctx.
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx == nil {
		ctx = context.Background()
	}
	cp := *r
	cp.ctx = ctx
	return &cp
}

// OnComplete registers fn to run once the call has finished, after the response
// interceptors, with the final result. It runs on every outcome, including
// failures raised by later request interceptors that drop this descriptor.
func (r *Request) OnComplete(fn func(resp *Response, err error)) {
	if fn == nil {
		return
	}
	if r.done == nil {
		r.done = &completion{}
	}
	r.done.mu.Lock()
	r.done.fns = append(r.done.fns, fn)
	r.done.mu.Unlock()
}

// SetHeader sets a single header, allocating the map when needed.
func (r *Request) SetHeader(key, value string) {
	if r.Headers == nil {
		r.Headers = make(map[string]string, 1)
	}
	r.Headers[key] = value
}

// URL resolves Path against BaseURL and appends Query.
func (r *Request) URL() (string, error) {
	raw := r.Path
	switch {
	case strings.HasPrefix(raw, "//") && r.BaseURL != "":
		// Scheme-relative paths take the base scheme.
		if base, err := url.Parse(r.BaseURL); err == nil && base.Scheme != "" {
			raw = base.Scheme + ":" + raw
		}
	case !isAbsoluteURL(raw) && r.BaseURL != "":
		raw = combineURLs(r.BaseURL, raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", &Error{
			Code:    CodeInvalidURL,
			Message: err.Error(),
			Request: r,
			Err:     err,
		}
	}
	if !u.IsAbs() {
		return "", &Error{
			Code:    CodeInvalidURL,
			Message: "url " + raw + " is not absolute",
			Request: r,
		}
	}

	if len(r.Query) > 0 {
		q := u.Query()
		for k, v := range r.Query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (r *Request) validStatus(status int) bool {
	if r.ValidateStatus != nil {
		return r.ValidateStatus(status)
	}
	return DefaultValidateStatus(status)
}

// DefaultValidateStatus accepts 2xx responses.
func DefaultValidateStatus(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

var absoluteURL = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+\-.]*:)?//`)

// isAbsoluteURL reports whether s carries a scheme or is scheme-relative.
func isAbsoluteURL(s string) bool {
	return absoluteURL.MatchString(s)
}

func combineURLs(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func mergeHeaders(defaults, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func copyMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
