// Package interceptors provides ready-made hook sets to plug into
// httpclient.ClientConfig.Handlers.
package interceptors

import (
	"github.com/samvad-hq/samvad-httpfacade/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpfacade/pkg/transport"
)

// Chain composes several hook sets into one. Fulfilled hooks run in order, each
// seeing the previous result; the first failure stops the sequence. Rejected
// hooks run in order, each fed the failure the previous one produced. A
// response rejected hook that recovers ends the sequence with its response.
// Slots no set fills stay nil so the client default applies.
func Chain(sets ...httpclient.HandlerOverrides) *httpclient.HandlerOverrides {
	var (
		reqF  []transport.RequestFulfilled
		reqR  []transport.Rejected
		respF []transport.ResponseFulfilled
		respR []transport.ResponseRejected
	)
	for _, s := range sets {
		if s.RequestFulfilled != nil {
			reqF = append(reqF, s.RequestFulfilled)
		}
		if s.RequestRejected != nil {
			reqR = append(reqR, s.RequestRejected)
		}
		if s.ResponseFulfilled != nil {
			respF = append(respF, s.ResponseFulfilled)
		}
		if s.ResponseRejected != nil {
			respR = append(respR, s.ResponseRejected)
		}
	}

	out := &httpclient.HandlerOverrides{}
	if len(reqF) > 0 {
		out.RequestFulfilled = func(req *transport.Request) (*transport.Request, error) {
			for _, fn := range reqF {
				next, err := fn(req)
				if err != nil {
					return nil, err
				}
				if next != nil {
					req = next
				}
			}
			return req, nil
		}
	}
	if len(respF) > 0 {
		out.ResponseFulfilled = func(resp *transport.Response) (*transport.Response, error) {
			for _, fn := range respF {
				next, err := fn(resp)
				if err != nil {
					return nil, err
				}
				if next != nil {
					resp = next
				}
			}
			return resp, nil
		}
	}
	if len(reqR) > 0 {
		out.RequestRejected = chainRejected(reqR)
	}
	if len(respR) > 0 {
		out.ResponseRejected = chainResponseRejected(respR)
	}
	return out
}

func chainRejected(fns []transport.Rejected) transport.Rejected {
	return func(err error) error {
		for _, fn := range fns {
			if out := fn(err); out != nil {
				err = out
			}
		}
		return err
	}
}

func chainResponseRejected(fns []transport.ResponseRejected) transport.ResponseRejected {
	return func(err error) (*transport.Response, error) {
		for _, fn := range fns {
			resp, out := fn(err)
			if resp != nil {
				return resp, nil
			}
			if out != nil {
				err = out
			}
		}
		return nil, err
	}
}
