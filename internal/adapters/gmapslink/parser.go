package gmapslink

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"route-weather-service/internal/domain"
	"route-weather-service/internal/ports"
)

// Travel mode encoded in the data= segment of /maps/dir/ links.
var dataModeRe = regexp.MustCompile(`!3e(\d)`)

var dataModes = map[string]string{
	"0": "driving",
	"1": "bicycling",
	"2": "walking",
	"3": "transit",
}

func parseGoogleURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid URL", domain.ErrParse)
	}
	if !strings.Contains(strings.ToLower(u.Hostname()), "google.") {
		return nil, domain.ErrUnrecognizedLink
	}
	return u, nil
}

// pathSegments returns the unescaped, non-empty path segments of u.
func pathSegments(u *url.URL) []string {
	var out []string
	for _, s := range strings.Split(u.EscapedPath(), "/") {
		if s == "" {
			continue
		}
		if dec, err := url.PathUnescape(s); err == nil {
			s = dec
		}
		out = append(out, s)
	}
	return out
}

func newPlace(raw string) domain.Place {
	return domain.Place{RawToken: domain.NormalizeToken(raw)}
}

// DirectionsParser handles "?api=1&origin=..&destination=.." and "/maps/dir/A/B/..." links.
type DirectionsParser struct{}

func (DirectionsParser) Parse(rawURL string) (ports.ParsedLink, error) {
	u, err := parseGoogleURL(rawURL)
	if err != nil {
		return ports.ParsedLink{}, err
	}
	q := u.Query()

	isAPI := q.Get("api") == "1" &&
		(strings.HasPrefix(u.Path, "/maps") || strings.HasPrefix(u.Path, "/dir"))
	if isAPI && (q.Has("origin") || q.Has("destination") || strings.Contains(u.Path, "/dir")) {
		return parseAPIDirections(q)
	}

	if strings.HasPrefix(u.Path, "/maps/dir/") {
		return parsePathDirections(u)
	}

	return ports.ParsedLink{}, domain.ErrUnrecognizedLink
}

func parseAPIDirections(q url.Values) (ports.ParsedLink, error) {
	origin := strings.TrimSpace(q.Get("origin"))
	dest := strings.TrimSpace(q.Get("destination"))
	if origin == "" || dest == "" {
		return ports.ParsedLink{}, fmt.Errorf("%w: the link is missing origin or destination", domain.ErrParse)
	}

	places := []domain.Place{newPlace(origin)}
	if w := q.Get("waypoints"); w != "" {
		for _, wp := range strings.Split(w, "|") {
			if strings.TrimSpace(wp) == "" {
				continue
			}
			places = append(places, newPlace(wp))
		}
	}
	places = append(places, newPlace(dest))

	return ports.ParsedLink{
		Kind:   domain.LinkDirections,
		Places: places,
		Mode:   q.Get("travelmode"),
	}, nil
}

func parsePathDirections(u *url.URL) (ports.ParsedLink, error) {
	segs := pathSegments(u)

	dirIdx := -1
	for i, s := range segs {
		if s == "dir" {
			dirIdx = i
			break
		}
	}

	var places []domain.Place
	mode := u.Query().Get("travelmode")
	for _, s := range segs[dirIdx+1:] {
		if strings.HasPrefix(s, "@") {
			break
		}
		if strings.HasPrefix(s, "data=") {
			if m := dataModeRe.FindStringSubmatch(s); m != nil && mode == "" {
				mode = dataModes[m[1]]
			}
			continue
		}
		if strings.Contains(s, ":") {
			continue
		}
		if p := newPlace(s); p.RawToken != "" {
			places = append(places, p)
		}
	}

	// The data= segment follows the @ viewport, so look for it separately.
	if mode == "" {
		if m := dataModeRe.FindStringSubmatch(u.EscapedPath()); m != nil {
			mode = dataModes[m[1]]
		}
	}

	if len(places) < 2 {
		return ports.ParsedLink{}, fmt.Errorf("%w: could not determine origin and destination", domain.ErrParse)
	}

	return ports.ParsedLink{
		Kind:   domain.LinkDirections,
		Places: places,
		Mode:   mode,
	}, nil
}

// PlaceParser handles single-place links: /maps/place/<name>, /maps/search/<name>, ?api=1&query= and ?q=.
type PlaceParser struct{}

func (PlaceParser) Parse(rawURL string) (ports.ParsedLink, error) {
	u, err := parseGoogleURL(rawURL)
	if err != nil {
		return ports.ParsedLink{}, err
	}

	segs := pathSegments(u)
	for i := 0; i+1 < len(segs); i++ {
		if segs[i] != "place" && segs[i] != "search" {
			continue
		}
		name := segs[i+1]
		if strings.HasPrefix(name, "@") {
			// /maps/search/@lat,lon,zoom has no name, only a viewport.
			name = viewportLatLon(name)
		}
		if p := newPlace(name); p.RawToken != "" {
			return singlePlace(p), nil
		}
		return ports.ParsedLink{}, fmt.Errorf("%w: the place link does not name a place", domain.ErrParse)
	}

	q := u.Query()
	if q.Get("api") == "1" && q.Has("query") {
		if p := newPlace(q.Get("query")); p.RawToken != "" {
			return singlePlace(p), nil
		}
		return ports.ParsedLink{}, fmt.Errorf("%w: the search link has an empty query", domain.ErrParse)
	}
	if q.Has("q") {
		if p := newPlace(q.Get("q")); p.RawToken != "" {
			return singlePlace(p), nil
		}
		return ports.ParsedLink{}, fmt.Errorf("%w: the search link has an empty query", domain.ErrParse)
	}

	return ports.ParsedLink{}, domain.ErrUnrecognizedLink
}

func singlePlace(p domain.Place) ports.ParsedLink {
	return ports.ParsedLink{Kind: domain.LinkSinglePlace, Places: []domain.Place{p}}
}

// viewportLatLon turns "@45.46,9.19,12z" into "45.46,9.19".
func viewportLatLon(seg string) string {
	parts := strings.Split(strings.TrimPrefix(seg, "@"), ",")
	if len(parts) < 2 {
		return ""
	}
	return parts[0] + "," + parts[1]
}

// Parsers returns the link parsers in the order they should be tried.
func Parsers() []ports.LinkParser {
	return []ports.LinkParser{DirectionsParser{}, PlaceParser{}}
}
