package transport

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func okRoundTripper(body string) RoundTripperFunc {
	return func(_ context.Context, req *Request) (*Response, error) {
		return &Response{StatusCode: http.StatusOK, Body: []byte(body), Request: req}, nil
	}
}

func TestTransportMergesHeadersPerCallWins(t *testing.T) {
	var got map[string]string
	tr := New(Options{
		BaseURL: "https://api.example.com",
		Headers: map[string]string{"X-Client": "facade", "Accept": "text/plain"},
	}, RoundTripperFunc(func(_ context.Context, req *Request) (*Response, error) {
		got = req.Headers
		return &Response{StatusCode: http.StatusOK}, nil
	}))

	_, err := tr.Get(context.Background(), "/ping", &RequestConfig{
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := map[string]string{"X-Client": "facade", "Accept": "application/json"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestURLResolution(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "relative path joins base",
			req:  Request{BaseURL: "https://api.example.com/v1/", Path: "/items"},
			want: "https://api.example.com/v1/items",
		},
		{
			name: "absolute path ignores base",
			req:  Request{BaseURL: "https://api.example.com", Path: "http://other.example.com/x"},
			want: "http://other.example.com/x",
		},
		{
			name: "custom scheme ignores base",
			req:  Request{BaseURL: "https://api.example.com", Path: "ftp://files.example.com/a.txt"},
			want: "ftp://files.example.com/a.txt",
		},
		{
			name: "scheme-relative path takes base scheme",
			req:  Request{BaseURL: "https://api.example.com", Path: "//cdn.example.com/x"},
			want: "https://cdn.example.com/x",
		},
		{
			name: "query appended",
			req:  Request{BaseURL: "https://api.example.com", Path: "search", Query: map[string]string{"q": "go"}},
			want: "https://api.example.com/search?q=go",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.req.URL()
			if err != nil {
				t.Fatalf("URL: %v", err)
			}
			if got != tc.want {
				t.Fatalf("URL = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestTransportRejectsRelativeURLWithoutBase(t *testing.T) {
	tr := New(Options{}, okRoundTripper("unused"))
	_, err := tr.Get(context.Background(), "/ping", nil)
	if CodeOf(err) != CodeInvalidURL {
		t.Fatalf("expected %s, got %v", CodeInvalidURL, err)
	}
}

func TestTransportStatusValidation(t *testing.T) {
	tr := New(Options{BaseURL: "https://api.example.com"}, RoundTripperFunc(func(_ context.Context, req *Request) (*Response, error) {
		return &Response{StatusCode: http.StatusNotFound, Body: []byte("missing")}, nil
	}))

	_, err := tr.Get(context.Background(), "/nope", nil)
	if CodeOf(err) != CodeBadRequest {
		t.Fatalf("expected %s, got %v", CodeBadRequest, err)
	}
	resp := ResponseOf(err)
	if resp == nil || string(resp.Body) != "missing" {
		t.Fatalf("expected response attached to error, got %#v", resp)
	}
	if RequestOf(err) == nil || RequestOf(err).Path != "/nope" {
		t.Fatalf("expected request attached to error")
	}

	resp, err = tr.Get(context.Background(), "/nope", &RequestConfig{
		ValidateStatus: func(int) bool { return true },
	})
	if err != nil {
		t.Fatalf("custom validator should accept 404: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestTransportServerErrorCode(t *testing.T) {
	tr := New(Options{BaseURL: "https://api.example.com"}, RoundTripperFunc(func(context.Context, *Request) (*Response, error) {
		return &Response{StatusCode: http.StatusBadGateway}, nil
	}))
	if _, err := tr.Get(context.Background(), "/", nil); CodeOf(err) != CodeBadResponse {
		t.Fatalf("expected %s, got %v", CodeBadResponse, err)
	}
}

func TestTransportPassesRoundTripErrorsThrough(t *testing.T) {
	sentinel := &Error{Code: CodeTimeout, Message: "deadline"}
	tr := New(Options{BaseURL: "https://api.example.com"}, RoundTripperFunc(func(context.Context, *Request) (*Response, error) {
		return nil, sentinel
	}))

	_, err := tr.Get(context.Background(), "/slow", nil)
	if err != sentinel {
		t.Fatalf("expected the round tripper error unchanged, got %v", err)
	}
	if !IsTimeout(err) {
		t.Fatalf("IsTimeout = false")
	}
}

func TestTransportAppliesPerCallTimeout(t *testing.T) {
	var deadline time.Time
	var ok bool
	tr := New(Options{BaseURL: "https://api.example.com"}, RoundTripperFunc(func(ctx context.Context, _ *Request) (*Response, error) {
		deadline, ok = ctx.Deadline()
		return &Response{StatusCode: http.StatusOK}, nil
	}))

	start := time.Now()
	if _, err := tr.Get(context.Background(), "/", &RequestConfig{Timeout: time.Minute}); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected a deadline on the round trip context")
	}
	if deadline.Before(start.Add(59*time.Second)) || deadline.After(start.Add(61*time.Second)) {
		t.Fatalf("unexpected deadline %v", deadline)
	}
}

func TestRequestChainRunsInOrderAndRejectedSeesFulfilledFailure(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	normalized := errors.New("normalized")

	tr := New(Options{BaseURL: "https://api.example.com"}, okRoundTripper("ok"))
	tr.Interceptors.Request.Use(RequestInterceptor{
		Fulfilled: func(req *Request) (*Request, error) {
			calls = append(calls, "first")
			req.SetHeader("X-First", "1")
			return req, nil
		},
	})
	tr.Interceptors.Request.Use(RequestInterceptor{
		Fulfilled: func(req *Request) (*Request, error) {
			calls = append(calls, "second")
			return nil, boom
		},
		Rejected: func(err error) error {
			calls = append(calls, "second-rejected")
			if !errors.Is(err, boom) {
				t.Fatalf("rejected got %v", err)
			}
			return normalized
		},
	})
	var responseRejected error
	tr.Interceptors.Response.Use(ResponseInterceptor{
		Rejected: func(err error) (*Response, error) {
			responseRejected = err
			return nil, nil
		},
	})

	_, err := tr.Get(context.Background(), "/", nil)
	if err != normalized {
		t.Fatalf("expected normalized error, got %v", err)
	}
	if responseRejected != normalized {
		t.Fatalf("response rejected hook should see request failure, got %v", responseRejected)
	}
	if diff := cmp.Diff([]string{"first", "second", "second-rejected"}, calls); diff != "" {
		t.Fatalf("call order (-want +got):\n%s", diff)
	}
}

func TestRejectedReturningNilKeepsFailure(t *testing.T) {
	sentinel := errors.New("down")
	tr := New(Options{BaseURL: "https://api.example.com"}, RoundTripperFunc(func(context.Context, *Request) (*Response, error) {
		return nil, sentinel
	}))
	tr.Interceptors.Response.Use(ResponseInterceptor{
		Rejected: func(error) (*Response, error) { return nil, nil },
	})

	resp, err := tr.Get(context.Background(), "/", nil)
	if err != sentinel {
		t.Fatalf("expected original failure, got %v", err)
	}
	if resp != nil {
		t.Fatalf("expected nil response on failure")
	}
}

func TestResponseFulfilledFailureReachesRejected(t *testing.T) {
	tr := New(Options{BaseURL: "https://api.example.com"}, okRoundTripper("ok"))
	var seen error
	tr.Interceptors.Response.Use(ResponseInterceptor{
		Fulfilled: func(*Response) (*Response, error) { return nil, errors.New("bad envelope") },
		Rejected: func(err error) (*Response, error) {
			seen = err
			return nil, err
		},
	})
	if _, err := tr.Get(context.Background(), "/", nil); err == nil || seen == nil {
		t.Fatalf("expected failure routed through rejected hook, err=%v seen=%v", err, seen)
	}
}

func TestInterceptorManagerEject(t *testing.T) {
	tr := New(Options{BaseURL: "https://api.example.com"}, okRoundTripper("ok"))
	id := tr.Interceptors.Response.Use(ResponseInterceptor{
		Fulfilled: func(resp *Response) (*Response, error) {
			resp.Body = []byte("changed")
			return resp, nil
		},
	})
	if tr.Interceptors.Response.Len() != 1 {
		t.Fatalf("expected one interceptor")
	}
	tr.Interceptors.Response.Eject(id)
	tr.Interceptors.Response.Eject(42)

	resp, err := tr.Get(context.Background(), "/", nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(resp.Body) != "ok" {
		t.Fatalf("ejected interceptor still ran, body=%s", resp.Body)
	}
}

func TestPostCarriesBody(t *testing.T) {
	var got any
	tr := New(Options{BaseURL: "https://api.example.com"}, RoundTripperFunc(func(_ context.Context, req *Request) (*Response, error) {
		got = req.Body
		if req.Method != http.MethodPost {
			t.Fatalf("method = %s", req.Method)
		}
		return &Response{StatusCode: http.StatusCreated}, nil
	}))
	body := map[string]string{"name": "x"}
	if _, err := tr.Post(context.Background(), "/items", body, nil); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if diff := cmp.Diff(body, got); diff != "" {
		t.Fatalf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestDoFillsDefaultsAndRunsInterceptors(t *testing.T) {
	var got *Request
	tr := New(Options{
		BaseURL: "https://api.example.com",
		Headers: map[string]string{"X-Client": "facade"},
	}, RoundTripperFunc(func(_ context.Context, req *Request) (*Response, error) {
		got = req
		return &Response{StatusCode: http.StatusOK}, nil
	}))
	tr.Interceptors.Request.Use(RequestInterceptor{
		Fulfilled: func(req *Request) (*Request, error) {
			req.SetHeader("X-Seen", "1")
			return req, nil
		},
	})

	in := &Request{Path: "/items", Query: map[string]string{"q": "a"}}
	if _, err := tr.Do(context.Background(), in); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got.Method != http.MethodGet || got.BaseURL != "https://api.example.com" {
		t.Fatalf("defaults not applied: %+v", got)
	}
	if got.Headers["X-Client"] != "facade" || got.Headers["X-Seen"] != "1" {
		t.Fatalf("headers = %#v", got.Headers)
	}
	if in.Headers != nil {
		t.Fatalf("caller descriptor must not be mutated")
	}
	if _, err := tr.Do(context.Background(), nil); CodeOf(err) != CodeInvalidURL {
		t.Fatalf("nil request = %v", err)
	}
}

func TestResponseRejectedCanRecoverByRetrying(t *testing.T) {
	var tokens []string
	rt := RoundTripperFunc(func(_ context.Context, req *Request) (*Response, error) {
		tokens = append(tokens, req.Headers["Authorization"])
		if req.Headers["Authorization"] != "Bearer fresh" {
			return &Response{StatusCode: http.StatusUnauthorized, Request: req}, nil
		}
		return &Response{StatusCode: http.StatusOK, Body: []byte("ok"), Request: req}, nil
	})
	tr := New(Options{BaseURL: "https://api.example.com", Headers: map[string]string{"Authorization": "Bearer stale"}}, rt)

	var after []string
	tr.Interceptors.Response.Use(ResponseInterceptor{
		Rejected: func(err error) (*Response, error) {
			resp := ResponseOf(err)
			if resp == nil || resp.StatusCode != http.StatusUnauthorized {
				return nil, nil
			}
			retry := *RequestOf(err)
			retry.Headers = map[string]string{"Authorization": "Bearer fresh"}
			return tr.rt.RoundTrip(retry.Context(), &retry)
		},
	})
	tr.Interceptors.Response.Use(ResponseInterceptor{
		Fulfilled: func(resp *Response) (*Response, error) {
			after = append(after, string(resp.Body))
			return resp, nil
		},
	})

	resp, err := tr.Get(context.Background(), "/me", nil)
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if resp.StatusCode != http.StatusOK || string(resp.Body) != "ok" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if diff := cmp.Diff([]string{"Bearer stale", "Bearer fresh"}, tokens); diff != "" {
		t.Fatalf("tokens (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ok"}, after); diff != "" {
		t.Fatalf("later interceptors should see the recovered response (-want +got):\n%s", diff)
	}
}

func TestNilResponseFromRoundTripperIsNetworkError(t *testing.T) {
	tr := New(Options{BaseURL: "https://api.example.com"}, RoundTripperFunc(func(context.Context, *Request) (*Response, error) {
		return nil, nil
	}))
	_, err := tr.Get(context.Background(), "/", nil)
	if CodeOf(err) != CodeNetwork {
		t.Fatalf("expected %s, got %v", CodeNetwork, err)
	}
	if RequestOf(err) == nil {
		t.Fatalf("error should carry the request")
	}
}

func TestOnCompleteRunsOnEveryOutcome(t *testing.T) {
	tests := []struct {
		name    string
		rt      RoundTripperFunc
		failReq bool
		wantErr bool
	}{
		{name: "success", rt: okRoundTripper("ok")},
		{name: "round trip error", rt: RoundTripperFunc(func(context.Context, *Request) (*Response, error) {
			return nil, errors.New("plain")
		}), wantErr: true},
		{name: "later request hook fails", rt: okRoundTripper("ok"), failReq: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(Options{BaseURL: "https://api.example.com"}, tt.rt)
			var calls int
			var gotErr error
			tr.Interceptors.Request.Use(RequestInterceptor{
				Fulfilled: func(req *Request) (*Request, error) {
					out := req.WithContext(req.Context())
					out.OnComplete(func(_ *Response, err error) {
						calls++
						gotErr = err
					})
					if tt.failReq {
						return nil, errors.New("token refresh failed")
					}
					return out, nil
				},
			})

			_, err := tr.Get(context.Background(), "/", nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if calls != 1 {
				t.Fatalf("completion ran %d times", calls)
			}
			if gotErr != err {
				t.Fatalf("completion saw %v, call returned %v", gotErr, err)
			}
		})
	}
}
