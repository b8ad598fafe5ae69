package interceptors

import (
	"time"

	"github.com/google/uuid"

	"github.com/samvad-hq/samvad-httpfacade/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpfacade/pkg/journal"
	"github.com/samvad-hq/samvad-httpfacade/pkg/transport"
)

// Journal records every completed exchange into store under client. Store
// failures are logged and never fail the call.
func Journal(store journal.Store, client string, log httpclient.Logger) httpclient.HandlerOverrides {
	if log == nil {
		log = httpclient.NopLogger{}
	}
	record := func(x exchange) {
		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}
		entry := journal.Entry{
			ID:         id.String(),
			Client:     client,
			Method:     x.method,
			URL:        x.url,
			StatusCode: x.status,
			DurationMs: x.duration.Milliseconds(),
			ErrorCode:  x.code,
			Error:      x.errMsg,
			RecordedAt: time.Now().UTC(),
		}
		if err := store.Record(entry); err != nil {
			log.WarnObj("journal record failed", "journal_error", map[string]any{
				"client": client,
				"error":  err.Error(),
			})
		}
	}

	return httpclient.HandlerOverrides{
		RequestFulfilled: func(req *transport.Request) (*transport.Request, error) {
			return stampStart(req), nil
		},
		ResponseFulfilled: func(resp *transport.Response) (*transport.Response, error) {
			record(describe(resp, nil))
			return resp, nil
		},
		ResponseRejected: func(err error) (*transport.Response, error) {
			record(describe(nil, err))
			return nil, err
		},
	}
}
