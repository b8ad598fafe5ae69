package interceptors

import (
	"context"
	"errors"
	"time"

	"github.com/samvad-hq/samvad-httpfacade/pkg/transport"
)

type startKey struct{}

// stampStart records the dispatch start on the descriptor context once.
func stampStart(req *transport.Request) *transport.Request {
	if _, ok := req.Context().Value(startKey{}).(time.Time); ok {
		return req
	}
	return req.WithContext(context.WithValue(req.Context(), startKey{}, time.Now()))
}

// exchange is the flattened view of one completed call.
type exchange struct {
	ctx      context.Context
	method   string
	url      string
	status   int
	duration time.Duration
	code     string
	errMsg   string
}

func describe(resp *transport.Response, err error) exchange {
	var req *transport.Request
	x := exchange{ctx: context.Background()}
	if err != nil {
		x.errMsg = err.Error()
		x.code = transport.CodeOf(err)
		if x.code == "" {
			var ne *NormalizedError
			if errors.As(err, &ne) {
				x.code = ne.Code
			}
		}
		req = transport.RequestOf(err)
		resp = transport.ResponseOf(err)
	}
	if resp != nil {
		x.status = resp.StatusCode
		x.duration = resp.Duration
		if req == nil {
			req = resp.Request
		}
	}
	if req != nil {
		x.ctx = req.Context()
		x.method = req.Method
		if target, uerr := req.URL(); uerr == nil {
			x.url = target
		} else {
			x.url = req.Path
		}
		if x.duration == 0 {
			if start, ok := x.ctx.Value(startKey{}).(time.Time); ok {
				x.duration = time.Since(start)
			}
		}
	}
	return x
}
