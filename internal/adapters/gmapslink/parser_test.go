package gmapslink

import (
	"errors"
	"testing"

	"route-weather-service/internal/domain"
)

func rawTokens(places []domain.Place) []string {
	out := make([]string, 0, len(places))
	for _, p := range places {
		out = append(out, p.RawToken)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDirectionsParserForms(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantRaw  []string
		wantMode string
	}{
		{
			name:     "api form",
			url:      "https://www.google.com/maps/dir/?api=1&origin=Milano&destination=Torino&travelmode=driving",
			wantRaw:  []string{"Milano", "Torino"},
			wantMode: "driving",
		},
		{
			name:     "api form with waypoints",
			url:      "https://www.google.com/maps/dir/?api=1&origin=Roma&destination=Napoli&waypoints=Cassino%7CCaserta&travelmode=driving",
			wantRaw:  []string{"Roma", "Cassino", "Caserta", "Napoli"},
			wantMode: "driving",
		},
		{
			name:    "api form with coordinates",
			url:     "https://www.google.com/maps/dir/?api=1&origin=45.4642,9.1900&destination=45.0703,7.6869",
			wantRaw: []string{"45.4642,9.1900", "45.0703,7.6869"},
		},
		{
			name:    "path form",
			url:     "https://www.google.com/maps/dir/Milano/Torino",
			wantRaw: []string{"Milano", "Torino"},
		},
		{
			name:     "path form with viewport and data",
			url:      "https://www.google.com/maps/dir/Bologna,+BO/Firenze,+FI/@44.1,11.2,9z/data=!4m2!4m1!3e1",
			wantRaw:  []string{"Bologna, BO", "Firenze, FI"},
			wantMode: "bicycling",
		},
		{
			name:    "path form skips segments with colons",
			url:     "https://www.google.com/maps/dir/Milano/place_id:ChIJ/Torino",
			wantRaw: []string{"Milano", "Torino"},
		},
		{
			name:    "path form unescapes and collapses whitespace",
			url:     "https://www.google.com/maps/dir/Piazza++del%20Duomo/Torino",
			wantRaw: []string{"Piazza del Duomo", "Torino"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := DirectionsParser{}.Parse(tt.url)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if link.Kind != domain.LinkDirections {
				t.Fatalf("kind = %q, want %q", link.Kind, domain.LinkDirections)
			}
			if got := rawTokens(link.Places); !equalStrings(got, tt.wantRaw) {
				t.Fatalf("places = %q, want %q", got, tt.wantRaw)
			}
			if link.Mode != tt.wantMode {
				t.Fatalf("mode = %q, want %q", link.Mode, tt.wantMode)
			}
		})
	}
}

func TestDirectionsParserErrors(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		unrecognized bool
	}{
		{name: "missing destination", url: "https://www.google.com/maps/dir/?api=1&origin=Milano"},
		{name: "single path segment", url: "https://www.google.com/maps/dir/Milano/@45.4,9.1,10z"},
		{name: "not a url", url: "Milano to Torino"},
		{name: "place link", url: "https://www.google.com/maps/place/Milano", unrecognized: true},
		{name: "other host", url: "https://example.com/maps/dir/Milano/Torino", unrecognized: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DirectionsParser{}.Parse(tt.url)
			if !errors.Is(err, domain.ErrParse) {
				t.Fatalf("err = %v, want ErrParse", err)
			}
			if got := errors.Is(err, domain.ErrUnrecognizedLink); got != tt.unrecognized {
				t.Fatalf("unrecognized = %v, want %v (err=%v)", got, tt.unrecognized, err)
			}
		})
	}
}

func TestPlaceParserForms(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://www.google.com/maps/place/Duomo+di+Milano/@45.46,9.19,17z", want: "Duomo di Milano"},
		{url: "https://www.google.com/maps/search/Torino", want: "Torino"},
		{url: "https://www.google.com/maps/search/@45.0703,7.6869,12z", want: "45.0703,7.6869"},
		{url: "https://www.google.com/maps/search/?api=1&query=Lago+di+Como", want: "Lago di Como"},
		{url: "https://maps.google.com/?q=Bergamo", want: "Bergamo"},
	}

	for _, tt := range tests {
		link, err := PlaceParser{}.Parse(tt.url)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.url, err)
		}
		if link.Kind != domain.LinkSinglePlace {
			t.Fatalf("%s: kind = %q, want %q", tt.url, link.Kind, domain.LinkSinglePlace)
		}
		if len(link.Places) != 1 || link.Places[0].RawToken != tt.want {
			t.Fatalf("%s: places = %q, want [%q]", tt.url, rawTokens(link.Places), tt.want)
		}
	}
}

func TestPlaceParserRejectsDirections(t *testing.T) {
	_, err := PlaceParser{}.Parse("https://www.google.com/maps/dir/Milano/Torino")
	if !errors.Is(err, domain.ErrUnrecognizedLink) {
		t.Fatalf("err = %v, want ErrUnrecognizedLink", err)
	}
}

func TestParsersOrder(t *testing.T) {
	parsers := Parsers()
	if len(parsers) != 2 {
		t.Fatalf("len(parsers) = %d, want 2", len(parsers))
	}
	if _, ok := parsers[0].(DirectionsParser); !ok {
		t.Fatalf("first parser = %T, want DirectionsParser", parsers[0])
	}
}
