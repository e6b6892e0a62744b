package gmapslink

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"route-weather-service/internal/platform/httpx"
)

const maxRedirects = 5

// Expander resolves Google Maps short links into their full form.
type Expander struct {
	client     *httpx.Client
	extraHosts map[string]bool
}

type ExpanderOption func(*Expander)

// WithShortHost treats host (host[:port]) as a short-link host. Used to point the expander at test servers.
func WithShortHost(host string) ExpanderOption {
	return func(e *Expander) { e.extraHosts[strings.ToLower(host)] = true }
}

func NewExpander(userAgent string, timeout time.Duration, opts ...ExpanderOption) *Expander {
	// Redirects are followed by hand so each hop can be inspected.
	session := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	e := &Expander{
		client:     httpx.NewClient(userAgent, timeout, httpx.WithHTTPClient(session), httpx.WithRetry(2, 200*time.Millisecond)),
		extraHosts: map[string]bool{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsShort reports whether rawURL is a maps.app.goo.gl or goo.gl/maps link.
func (e *Expander) IsShort(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	return e.isShortURL(u)
}

func (e *Expander) isShortURL(u *url.URL) bool {
	switch strings.ToLower(u.Hostname()) {
	case "maps.app.goo.gl":
		return true
	case "goo.gl":
		return strings.HasPrefix(u.Path, "/maps")
	}
	return e.extraHosts[strings.ToLower(u.Host)]
}

// Expand returns the full URL behind a short link.
// It never fails: ok is false when the link cannot be expanded.
func (e *Expander) Expand(ctx context.Context, shortURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(shortURL))
	if err != nil {
		return "", false
	}

	if embedded := u.Query().Get("link"); embedded != "" {
		if full, err := url.PathUnescape(embedded); err == nil {
			embedded = full
		}
		return embedded, true
	}

	current := u
	for range maxRedirects {
		resp, err := e.client.Get(ctx, current.String())
		if err != nil {
			log.Printf("expand short link failed: url=%s err=%v", current, err)
			return "", false
		}
		loc := resp.Header.Get("Location")
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()

		if loc == "" {
			break
		}

		next, err := current.Parse(loc)
		if err != nil {
			log.Printf("expand short link failed: bad location=%q err=%v", loc, err)
			return "", false
		}
		if !e.isShortURL(next) {
			return next.String(), true
		}
		current = next
	}

	return "", false
}
