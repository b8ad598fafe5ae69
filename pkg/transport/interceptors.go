package transport

import "sync"

// RequestFulfilled runs on every outbound descriptor. Returning a nil request
// keeps the one passed in.
type RequestFulfilled func(req *Request) (*Request, error)

// ResponseFulfilled runs on every successful response. Returning a nil response
// keeps the one passed in.
type ResponseFulfilled func(resp *Response) (*Response, error)

// Rejected runs on a request-phase failure. The returned error replaces the
// failure; returning nil keeps the original one.
type Rejected func(err error) error

// ResponseRejected runs on a failed call. A non-nil response recovers the call,
// for example after refreshing a token and retrying; later interceptors then see
// it as fulfilled. Otherwise a non-nil error replaces the failure and nil keeps it.
type ResponseRejected func(err error) (*Response, error)

// RequestInterceptor is a fulfilled/rejected pair on the outbound path.
type RequestInterceptor struct {
	Fulfilled RequestFulfilled
	Rejected  Rejected
}

// ResponseInterceptor is a fulfilled/rejected pair on the inbound path.
type ResponseInterceptor struct {
	Fulfilled ResponseFulfilled
	Rejected  ResponseRejected
}

// InterceptorManager keeps interceptors in registration order.
type InterceptorManager[H any] struct {
	mu       sync.RWMutex
	handlers []*H
}

// Use registers h and returns an id usable with Eject for the manager's lifetime.
func (m *InterceptorManager[H]) Use(h H) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, &h)
	return len(m.handlers) - 1
}

// Eject removes the interceptor registered under id. Unknown ids are ignored.
func (m *InterceptorManager[H]) Eject(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id >= 0 && id < len(m.handlers) {
		m.handlers[id] = nil
	}
}

// Len returns the number of active interceptors.
func (m *InterceptorManager[H]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, h := range m.handlers {
		if h != nil {
			n++
		}
	}
	return n
}

func (m *InterceptorManager[H]) snapshot() []H {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]H, 0, len(m.handlers))
	for _, h := range m.handlers {
		if h != nil {
			out = append(out, *h)
		}
	}
	return out
}

// Interceptors groups the request and response managers of a transport.
type Interceptors struct {
	Request  InterceptorManager[RequestInterceptor]
	Response InterceptorManager[ResponseInterceptor]
}

func runRequestChain(chain []RequestInterceptor, req *Request, err error) (*Request, error) {
	for _, ic := range chain {
		if err == nil && ic.Fulfilled != nil {
			next, ferr := ic.Fulfilled(req)
			if ferr != nil {
				err = ferr
			} else if next != nil {
				req = next
			}
		}
		if err != nil && ic.Rejected != nil {
			err = reject(ic.Rejected, err)
		}
	}
	return req, err
}

func runResponseChain(chain []ResponseInterceptor, resp *Response, err error) (*Response, error) {
	for _, ic := range chain {
		if err == nil && ic.Fulfilled != nil {
			next, ferr := ic.Fulfilled(resp)
			if ferr != nil {
				err = ferr
			} else if next != nil {
				resp = next
			}
		}
		if err != nil && ic.Rejected != nil {
			recovered, rerr := ic.Rejected(err)
			switch {
			case recovered != nil:
				resp, err = recovered, nil
			case rerr != nil:
				err = rerr
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func reject(fn Rejected, err error) error {
	if out := fn(err); out != nil {
		return out
	}
	return err
}
