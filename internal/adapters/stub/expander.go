package stub

import (
	"context"
	"strings"
)

// Expander expands short links from a fixed table.
type Expander struct {
	Links map[string]string
}

func (e *Expander) IsShort(rawURL string) bool {
	return strings.Contains(rawURL, "maps.app.goo.gl") || strings.Contains(rawURL, "goo.gl/maps")
}

func (e *Expander) Expand(ctx context.Context, shortURL string) (string, bool) {
	full, ok := e.Links[shortURL]
	return full, ok
}
