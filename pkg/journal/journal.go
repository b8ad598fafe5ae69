// Package journal keeps a short-lived local record of completed HTTP exchanges.
package journal

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one completed exchange, successful or not.
type Entry struct {
	ID         string    `json:"id"`
	Client     string    `json:"client"`
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	ErrorCode  string    `json:"error_code,omitempty"`
	Error      string    `json:"error,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Store persists journal entries.
type Store interface {
	Close() error
	Record(e Entry) error
	Get(id string) (Entry, bool, error)
	// List returns up to limit entries, newest first. limit <= 0 means all.
	List(limit int) ([]Entry, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

const (
	defaultTTL             = 24 * time.Hour
	defaultCleanupInterval = time.Hour
)

// NewStore creates the configured journal backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt journal requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported journal type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                    { return nil }
func (noopStore) Record(Entry) error              { return nil }
func (noopStore) Get(string) (Entry, bool, error) { return Entry{}, false, nil }
func (noopStore) List(int) ([]Entry, error)       { return nil, nil }
