package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-httpfacade/internal/config"
	"github.com/samvad-hq/samvad-httpfacade/pkg/httpclient"
)

func baseConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		AppName:        "facade-test",
		BaseURL:        baseURL,
		Timeout:        time.Second,
		JournalType:    "bbolt",
		JournalPath:    filepath.Join(t.TempDir(), "journal.db"),
		JournalTTL:     time.Hour,
		JournalCleanup: time.Hour,
		Interceptors:   []string{"journal"},
	}
}

func TestRunnerDoRecordsAndAuthorizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer s3cret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	cfg := baseConfig(t, srv.URL)
	cfg.BearerToken = "s3cret"
	r, err := NewRunner(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	defer r.Close(context.Background())

	out, err := r.Do(context.Background(), http.MethodGet, "/health", nil, httpclient.RequestConfig{})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	raw, ok := out.Body.(json.RawMessage)
	if !ok || string(raw) != `{"ok":true}` {
		t.Fatalf("body = %#v", out.Body)
	}

	entries, err := r.Journal().List(0)
	if err != nil || len(entries) != 1 {
		t.Fatalf("journal = %v, %v", entries, err)
	}
	if entries[0].Client != "facade-test" || !strings.HasSuffix(entries[0].URL, "/health") {
		t.Fatalf("entry = %+v", entries[0])
	}
}

func TestRunnerRejectsUnknownMethod(t *testing.T) {
	r, err := NewRunner(context.Background(), baseConfig(t, "https://api.example.com"), nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	defer r.Close(context.Background())

	if _, err := r.Do(context.Background(), http.MethodDelete, "/x", nil, httpclient.RequestConfig{}); err == nil {
		t.Fatalf("expected unsupported method error")
	}
}

func TestRunnerPublishPresetNeedsPublishers(t *testing.T) {
	cfg := baseConfig(t, "https://api.example.com")
	cfg.Interceptors = []string{"publish"}
	if _, err := NewRunner(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error when publish preset has no publishers")
	}
}

func TestRunnerLoadsPublishers(t *testing.T) {
	hits := make(chan string, 1)
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt map[string]any
		_ = json.NewDecoder(r.Body).Decode(&evt)
		hits <- evt["client"].(string)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer sink.Close()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	}))
	defer api.Close()

	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := "publishers:\n  - id: sink\n    type: http\n    http:\n      url: " + sink.URL + "\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write publishers: %v", err)
	}

	cfg := baseConfig(t, api.URL)
	cfg.PublishersFile = path
	cfg.Interceptors = []string{"publish"}
	r, err := NewRunner(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	defer r.Close(context.Background())

	out, err := r.Do(context.Background(), http.MethodGet, "/ping", nil, httpclient.RequestConfig{})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out.Body != "pong" {
		t.Fatalf("body = %#v", out.Body)
	}
	select {
	case client := <-hits:
		if client != "facade-test" {
			t.Fatalf("event client = %q", client)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("sink never received the event")
	}
}
