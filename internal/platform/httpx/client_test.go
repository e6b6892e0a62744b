package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetJSONRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		if r.URL.Query().Get("q") != "x" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient("ua", time.Second, WithRetry(4, time.Millisecond))
	var out struct{ OK bool }
	if err := c.GetJSON(context.Background(), srv.URL, url.Values{"q": {"x"}}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.OK || calls.Load() != 3 {
		t.Fatalf("ok = %v, calls = %d, want true, 3", out.OK, calls.Load())
	}
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient("ua", time.Second, WithRetry(4, time.Millisecond))
	err := c.GetJSON(context.Background(), srv.URL, nil, &struct{}{})

	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadRequest || se.Body != "bad request" {
		t.Fatalf("err = %v, want StatusError 400", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestHeadersAndPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.Header.Get("Authorization") != "secret" || r.Header.Get("User-Agent") != "ua" {
			t.Errorf("headers = %v", r.Header)
		}
		if r.Header.Get("Accept-Language") != "it" || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("headers = %v", r.Header)
		}
		w.Write([]byte(`{"n":2}`))
	}))
	defer srv.Close()

	c := NewClient("ua", time.Second, WithHeader("Authorization", "secret"), WithLanguage("it"))
	var out struct{ N int }
	if err := c.PostJSON(context.Background(), srv.URL, map[string]int{"n": 1}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.N != 2 {
		t.Fatalf("n = %d, want 2", out.N)
	}
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient("ua", time.Second, WithRetry(10, time.Second))
	if err := c.GetJSON(ctx, srv.URL, nil, &struct{}{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}
