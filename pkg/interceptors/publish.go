package interceptors

import (
	"context"

	"github.com/samvad-hq/samvad-httpfacade/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpfacade/pkg/publishers"
	"github.com/samvad-hq/samvad-httpfacade/pkg/transport"
)

// Emitter delivers exchange events. *publishers.Fanout implements it.
type Emitter interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Publish emits one publishers.Event per completed exchange. Delivery is
// synchronous inside the response hook, so the call returns only after every
// sink has answered; slow sinks should carry their own timeout. Delivery
// failures are logged and never fail the call.
func Publish(pub Emitter, client string, log httpclient.Logger) httpclient.HandlerOverrides {
	if log == nil {
		log = httpclient.NopLogger{}
	}
	emit := func(x exchange) {
		evt := publishers.NewEvent(client, x.method, x.url)
		evt.StatusCode = x.status
		evt.DurationMs = x.duration.Milliseconds()
		evt.ErrorCode = x.code
		evt.Error = x.errMsg

		// The caller's context may already be done when the call failed.
		ctx := context.WithoutCancel(x.ctx)
		if _, err := pub.Publish(ctx, evt); err != nil {
			log.WarnObj("exchange event publish failed", "publish_error", map[string]any{
				"client":   client,
				"event_id": evt.ID,
				"error":    err.Error(),
			})
		}
	}

	return httpclient.HandlerOverrides{
		RequestFulfilled: func(req *transport.Request) (*transport.Request, error) {
			return stampStart(req), nil
		},
		ResponseFulfilled: func(resp *transport.Response) (*transport.Response, error) {
			emit(describe(resp, nil))
			return resp, nil
		},
		ResponseRejected: func(err error) (*transport.Response, error) {
			emit(describe(nil, err))
			return nil, err
		},
	}
}
