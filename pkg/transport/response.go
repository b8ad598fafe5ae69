package transport

import (
	"net/http"
	"time"
)

// Response is the envelope handed to response interceptors and returned to callers.
type Response struct {
	StatusCode int
	Status     string
	Headers    map[string]string
	Body       []byte
	// Request is the descriptor that produced this response.
	Request  *Request
	Duration time.Duration
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r != nil && DefaultValidateStatus(r.StatusCode)
}

// flattenHeaders keeps the first value of each header.
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
