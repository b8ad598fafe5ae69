package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestyRoundTripperSendsJSONAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("missing header, got %q", got)
		}
		if got := r.URL.Query().Get("v"); got != "2" {
			t.Errorf("missing query, got %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(raw)
	}))
	defer srv.Close()

	tr := New(Options{BaseURL: srv.URL, Timeout: 2 * time.Second, Headers: map[string]string{"X-Test": "1"}}, nil)
	resp, err := tr.Post(context.Background(), "/items", map[string]string{"name": "x"}, &RequestConfig{
		Query: map[string]string{"v": "2"},
	})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var echoed map[string]string
	if err := json.Unmarshal(resp.Body, &echoed); err != nil {
		t.Fatalf("decode echo: %v", err)
	}
	if echoed["name"] != "x" {
		t.Fatalf("unexpected echo %v", echoed)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Fatalf("unexpected headers %v", resp.Headers)
	}
	if resp.Request == nil || resp.Request.Path != "/items" {
		t.Fatalf("response should reference its request")
	}
}

func TestRestyRoundTripperTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := New(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	_, err := tr.Get(context.Background(), "/slow", nil)
	if !IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestRestyRoundTripperCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := New(Options{BaseURL: srv.URL, Timeout: time.Second}, nil)
	_, err := tr.Get(ctx, "/", nil)
	if CodeOf(err) != CodeCanceled {
		t.Fatalf("expected %s, got %v", CodeCanceled, err)
	}
}

func TestRestyRoundTripperNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	tr := New(Options{BaseURL: addr, Timeout: time.Second}, nil)
	_, err := tr.Get(context.Background(), "/", nil)
	if CodeOf(err) != CodeNetwork {
		t.Fatalf("expected %s, got %v", CodeNetwork, err)
	}
}
