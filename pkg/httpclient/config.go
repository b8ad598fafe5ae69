package httpclient

import (
	"fmt"
	"net/url"
	"time"

	"github.com/samvad-hq/samvad-httpfacade/pkg/transport"
)

// ClientConfig configures a Client once, at construction.
type ClientConfig struct {
	BaseURL string            `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration     `mapstructure:"timeout" yaml:"timeout"`
	Headers map[string]string `mapstructure:"headers" yaml:"headers"`
	// Handlers replaces individual interceptor hooks. Nil fields keep the defaults.
	Handlers *HandlerOverrides `mapstructure:"-" yaml:"-"`
}

// HandlerOverrides holds one optional slot per interceptor hook.
type HandlerOverrides struct {
	RequestFulfilled  transport.RequestFulfilled
	RequestRejected   transport.Rejected
	ResponseFulfilled transport.ResponseFulfilled
	ResponseRejected  transport.ResponseRejected
}

// Handlers is a fully resolved hook set; every field is non-nil.
type Handlers struct {
	RequestFulfilled  transport.RequestFulfilled
	RequestRejected   transport.Rejected
	ResponseFulfilled transport.ResponseFulfilled
	ResponseRejected  transport.ResponseRejected
}

// ResolveHandlers picks, per hook, the override when present and the default otherwise.
func ResolveHandlers(overrides *HandlerOverrides, defaults Handlers) Handlers {
	if overrides == nil {
		return defaults
	}
	out := defaults
	if overrides.RequestFulfilled != nil {
		out.RequestFulfilled = overrides.RequestFulfilled
	}
	if overrides.RequestRejected != nil {
		out.RequestRejected = overrides.RequestRejected
	}
	if overrides.ResponseFulfilled != nil {
		out.ResponseFulfilled = overrides.ResponseFulfilled
	}
	if overrides.ResponseRejected != nil {
		out.ResponseRejected = overrides.ResponseRejected
	}
	return out
}

// Validate checks that the configuration is usable.
func (c ClientConfig) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("httpclient: timeout must not be negative")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("httpclient: parse base url: %w", err)
		}
		if !u.IsAbs() {
			return fmt.Errorf("httpclient: base url %q must be absolute", c.BaseURL)
		}
	}
	return nil
}
