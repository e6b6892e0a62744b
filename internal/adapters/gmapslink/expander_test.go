package gmapslink

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestExpanderIsShort(t *testing.T) {
	e := NewExpander("test", time.Second)

	tests := []struct {
		url  string
		want bool
	}{
		{"https://maps.app.goo.gl/abc", true},
		{"https://goo.gl/maps/abcd", true},
		{"https://goo.gl/other", false},
		{"https://www.google.com/maps/dir/?api=1&origin=Milano&destination=Torino", false},
		{"not a url", false},
	}
	for _, tt := range tests {
		if got := e.IsShort(tt.url); got != tt.want {
			t.Fatalf("IsShort(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestExpanderEmbeddedLink(t *testing.T) {
	e := NewExpander("test", time.Second)
	full := "https://www.google.com/maps/dir/Milano/Torino"

	got, ok := e.Expand(context.Background(), "https://maps.app.goo.gl/?link="+url.QueryEscape(full))
	if !ok {
		t.Fatalf("expected expansion")
	}
	if got != full {
		t.Fatalf("expanded = %q, want %q", got, full)
	}
}

func TestExpanderFollowsRedirects(t *testing.T) {
	final := "https://www.google.com/maps/dir/Milano/Torino"

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/abc":
			http.Redirect(w, r, srv.URL+"/hop", http.StatusFound)
		case "/hop":
			http.Redirect(w, r, final, http.StatusMovedPermanently)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	host := srv.Listener.Addr().String()
	e := NewExpander("test", time.Second, WithShortHost(host))

	got, ok := e.Expand(context.Background(), srv.URL+"/abc")
	if !ok {
		t.Fatalf("expected expansion")
	}
	if got != final {
		t.Fatalf("expanded = %q, want %q", got, final)
	}
}

func TestExpanderGivesUp(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/loop":
			http.Redirect(w, r, srv.URL+"/loop", http.StatusFound)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	e := NewExpander("test", time.Second, WithShortHost(srv.Listener.Addr().String()))

	if got, ok := e.Expand(context.Background(), srv.URL+"/loop"); ok {
		t.Fatalf("expected failure on redirect loop, got %q", got)
	}
	if got, ok := e.Expand(context.Background(), srv.URL+"/plain"); ok {
		t.Fatalf("expected failure without redirect, got %q", got)
	}
}
