package ports

import (
	"context"

	"route-weather-service/internal/domain"
)

// Contract for resolving shortened map links to their canonical form.
type LinkExpander interface {
	// Report whether the link is a known short form that needs expansion.
	IsShort(rawURL string) bool
	// Return the expanded link, or ok=false when expansion is not possible. Never fails.
	Expand(ctx context.Context, shortURL string) (fullURL string, ok bool)
}

// Result of parsing a map link into place tokens.
type ParsedLink struct {
	Kind   domain.LinkKind
	Places []domain.Place
	Mode   string
}

// One variant of link parsing. Parsers are tried in order until one succeeds;
// a parser that does not recognize the link returns an error wrapping domain.ErrParse.
type LinkParser interface {
	Parse(rawURL string) (ParsedLink, error)
}
