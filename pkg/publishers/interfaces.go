package publishers

import (
	"context"

	"github.com/samvad-hq/samvad-httpfacade/pkg/httpclient"
)

// Publisher sends events to a downstream sink (SQS, SNS, Pub/Sub, HTTP).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Logger is the object-logging surface shared with the client facade.
type Logger = httpclient.Logger

func ensureLogger(log Logger) Logger {
	if log == nil {
		return httpclient.NopLogger{}
	}
	return log
}
