package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/samvad-hq/samvad-httpfacade/internal/config"
	"github.com/samvad-hq/samvad-httpfacade/internal/logger"
	"github.com/samvad-hq/samvad-httpfacade/internal/tracing"
	"github.com/samvad-hq/samvad-httpfacade/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpfacade/pkg/interceptors"
	"github.com/samvad-hq/samvad-httpfacade/pkg/journal"
	"github.com/samvad-hq/samvad-httpfacade/pkg/publishers"
)

// Runner owns one configured facade together with the journal, publishers and
// tracer its interceptors use.
type Runner struct {
	cfg      *config.Config
	log      logger.Logger
	client   *httpclient.Client
	store    journal.Store
	fanout   *publishers.Fanout
	shutdown tracing.ShutdownFunc
}

// Output is the printable result of one call.
type Output struct {
	StatusCode int               `json:"status"`
	Status     string            `json:"status_text"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       any               `json:"body,omitempty"`
}

// NewRunner builds the facade from config. opts are passed to httpclient.New.
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...httpclient.Option) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r := &Runner{cfg: cfg, log: log}

	store, err := journal.NewStore(cfg.JournalType, cfg.JournalPath, journal.Options{
		TTL:             cfg.JournalTTL,
		CleanupInterval: cfg.JournalCleanup,
	})
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}
	r.store = store
	log.InfoObj("journal initialized", "journal_config", map[string]any{
		"type":                     cfg.JournalType,
		"path":                     cfg.JournalPath,
		"ttl_seconds":              int(cfg.JournalTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.JournalCleanup.Seconds()),
	})

	if cfg.PublishersFile != "" {
		if err := r.loadPublishers(ctx); err != nil {
			_ = r.Close(ctx)
			return nil, err
		}
	}

	tracer, shutdown, err := tracing.Setup(ctx, tracing.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Env,
		Endpoint:    cfg.TracingEndpoint,
		Insecure:    cfg.TracingInsecure,
		SampleRate:  cfg.TracingSampleRate,
	})
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	r.shutdown = shutdown

	deps := interceptors.Deps{
		Client:  cfg.AppName,
		Logger:  log,
		Tracer:  tracer,
		Journal: store,
	}
	if r.fanout != nil {
		deps.Publisher = r.fanout
	}
	names := cfg.Interceptors
	if cfg.BearerToken != "" {
		deps.Token = interceptors.StaticToken(cfg.BearerToken)
		names = append([]string{interceptors.PresetBearer}, names...)
	}
	handlers, err := interceptors.Presets(names, deps)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("build interceptors: %w", err)
	}

	client, err := httpclient.New(log, httpclient.ClientConfig{
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout,
		Headers:  cfg.Headers,
		Handlers: handlers,
	}, opts...)
	if err != nil {
		_ = r.Close(ctx)
		return nil, fmt.Errorf("build client: %w", err)
	}
	r.client = client

	log.InfoObj("facade ready", "facade_meta", map[string]any{
		"base_url":     cfg.BaseURL,
		"timeout_ms":   cfg.Timeout.Milliseconds(),
		"interceptors": names,
	})
	return r, nil
}

func (r *Runner) loadPublishers(ctx context.Context) error {
	reg, err := publishers.LoadRegistry(r.cfg.PublishersFile)
	if err != nil {
		return fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, r.log)
	if err != nil {
		return fmt.Errorf("build publishers: %w", err)
	}
	r.fanout = publishers.NewFanout(pubs)

	summaries := make([]map[string]string, 0, len(enabled))
	for _, c := range enabled {
		summaries = append(summaries, map[string]string{"id": c.ID, "type": c.Type})
	}
	r.log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return nil
}

// Client returns the configured facade.
func (r *Runner) Client() *httpclient.Client { return r.client }

// Journal returns the exchange journal.
func (r *Runner) Journal() journal.Store { return r.store }

// Do sends one call and shapes the response for printing. Only GET and POST are supported.
func (r *Runner) Do(ctx context.Context, method, path string, body any, rc httpclient.RequestConfig) (*Output, error) {
	var (
		env *httpclient.Envelope[[]byte]
		err error
	)
	switch method {
	case http.MethodGet:
		env, err = httpclient.Get[[]byte](ctx, r.client, path, rc)
	case http.MethodPost:
		env, err = httpclient.Post[[]byte](ctx, r.client, path, body, &rc)
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}
	if err != nil {
		return nil, err
	}
	return &Output{
		StatusCode: env.StatusCode,
		Status:     env.Status,
		Headers:    env.Headers,
		Body:       printableBody(env.Body),
	}, nil
}

// printableBody keeps JSON bodies structured and everything else as text.
func printableBody(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	return string(b)
}

// Close releases publishers, the journal and the tracer provider.
func (r *Runner) Close(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.fanout != nil {
		errs = append(errs, r.fanout.Close())
	}
	if r.store != nil {
		errs = append(errs, r.store.Close())
	}
	if r.shutdown != nil {
		errs = append(errs, r.shutdown(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		r.log.ErrorObj("runner close failed", "error", err.Error())
		return err
	}
	return nil
}
