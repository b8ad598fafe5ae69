package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-httpfacade/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpfacade/pkg/transport"
)

// httpPublisher POSTs events through its own facade instance. It installs no
// handler overrides so publishing never re-enters the exchange hooks.
type httpPublisher struct {
	id     string
	url    string
	client httpclient.API
	typ    string
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	client, err := httpclient.New(log, httpclient.ClientConfig{
		Timeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		Headers: cfg.HTTP.Headers,
	})
	if err != nil {
		return nil, fmt.Errorf("build http client for publisher %q: %w", cfg.ID, err)
	}

	return &httpPublisher{
		id:     cfg.ID,
		typ:    TypeHTTP,
		url:    cfg.HTTP.URL,
		client: client,
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return h.typ }
func (h *httpPublisher) Close() error { return nil }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	_, err := h.client.Post(ctx, h.url, evt, &httpclient.RequestConfig{
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	if err == nil {
		return nil
	}
	if resp := transport.ResponseOf(err); resp != nil {
		return fmt.Errorf("http response status %d: %s", resp.StatusCode, readBodySnippet(resp.Body))
	}
	return fmt.Errorf("http request: %w", err)
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}
