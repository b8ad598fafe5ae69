package interceptors

import (
	"github.com/samvad-hq/samvad-httpfacade/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpfacade/pkg/transport"
)

// Logging logs every phase through log and passes values through unchanged.
func Logging(log httpclient.Logger) httpclient.HandlerOverrides {
	if log == nil {
		log = httpclient.NopLogger{}
	}
	return httpclient.HandlerOverrides{
		RequestFulfilled: func(req *transport.Request) (*transport.Request, error) {
			target, _ := req.URL()
			log.DebugObj("http request", "http_request", map[string]any{
				"method": req.Method,
				"url":    target,
			})
			return req, nil
		},
		RequestRejected: func(err error) error {
			log.WarnObj("http request rejected", "http_request_error", map[string]any{
				"error": err.Error(),
				"code":  transport.CodeOf(err),
			})
			return err
		},
		ResponseFulfilled: func(resp *transport.Response) (*transport.Response, error) {
			x := describe(resp, nil)
			log.InfoObj("http response", "http_response", map[string]any{
				"method":      x.method,
				"url":         x.url,
				"status":      x.status,
				"duration_ms": x.duration.Milliseconds(),
			})
			return resp, nil
		},
		ResponseRejected: func(err error) (*transport.Response, error) {
			x := describe(nil, err)
			log.ErrorObj("http call failed", "http_response_error", map[string]any{
				"method": x.method,
				"url":    x.url,
				"status": x.status,
				"code":   x.code,
				"error":  x.errMsg,
			})
			return nil, err
		},
	}
}
