package sections

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/homerelay/homerelay/internal/core"
)

func decodePayload(t *testing.T, raw string) any {
	t.Helper()
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("bad test payload: %v", err)
	}
	return payload
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("bad test url: %v", err)
	}
	return u
}

func TestParseJellyseerrItemsDiscoverShape(t *testing.T) {
	b := &backend{base: mustParseURL(t, "http://seer.local"), apiKey: "key"}
	payload := decodePayload(t, `{
		"results": [
			{
				"id": 603,
				"title": "The Matrix",
				"mediaType": "movie",
				"overview": "A hacker learns the truth.",
				"posterPath": "/matrix.jpg",
				"backdropPath": "/matrix-wide.jpg",
				"releaseDate": "1999-03-31"
			},
			{
				"id": 1399,
				"name": "Game of Thrones",
				"mediaType": "tv",
				"firstAirDate": "2011-04-17",
				"mediaInfo": {"status": "AVAILABLE"}
			},
			{
				"id": 550,
				"title": "Fight Club",
				"mediaType": "movie",
				"mediaInfo": {"requestStatus": "PENDING"}
			},
			{"overview": "no id or title, dropped"}
		]
	}`)

	items := parseJellyseerrItems(payload, b, core.MediaTypeMovie)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	matrix := items[0]
	if matrix.ID != "603" || matrix.Name != "The Matrix" {
		t.Errorf("unexpected identity: %+v", matrix)
	}
	if matrix.Year != 1999 {
		t.Errorf("year = %d, want 1999 from releaseDate", matrix.Year)
	}
	if matrix.MediaType != core.MediaTypeMovie {
		t.Errorf("mediaType = %q, want movie", matrix.MediaType)
	}
	if !matrix.Requestable || matrix.InLibrary {
		t.Errorf("fresh discover item should be requestable and not in library: %+v", matrix)
	}
	wantPoster := "http://seer.local/api/v1/image?path=%2Fmatrix.jpg&width=500"
	if matrix.PosterURL != wantPoster {
		t.Errorf("posterUrl = %q, want %q", matrix.PosterURL, wantPoster)
	}
	wantBackdrop := "http://seer.local/api/v1/image?path=%2Fmatrix-wide.jpg&width=1280"
	if matrix.BackdropURL != wantBackdrop {
		t.Errorf("backdropUrl = %q, want %q", matrix.BackdropURL, wantBackdrop)
	}

	got := items[1]
	if got.MediaType != core.MediaTypeShow || got.Year != 2011 {
		t.Errorf("show fallbacks wrong: %+v", got)
	}
	if !got.InLibrary || got.Requestable {
		t.Errorf("available item should be in library and not requestable: %+v", got)
	}

	pending := items[2]
	if pending.InLibrary {
		t.Errorf("pending item should not be in library: %+v", pending)
	}
	if pending.Requestable {
		t.Errorf("item with a request in flight should not be requestable: %+v", pending)
	}
}

func TestParseJellyseerrItemsRequestShape(t *testing.T) {
	b := &backend{base: mustParseURL(t, "http://seer.local"), apiKey: "key"}
	payload := decodePayload(t, `{
		"results": [
			{
				"id": 10,
				"requestCount": 1,
				"media": {
					"tmdbId": 27205,
					"title": "Inception",
					"mediaType": "movie",
					"releaseDate": "2010-07-16",
					"mediaInfo": {
						"status": "AVAILABLE",
						"jellyfinId": "1f4425f1-1df4-4a85-b4ba-7e1a72ae2b9a"
					}
				}
			},
			{
				"mediaId": 60059,
				"name": "Better Call Saul",
				"mediaType": "tv",
				"requested": true
			}
		]
	}`)

	items := parseJellyseerrItems(payload, b, core.MediaTypeUnknown)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	inception := items[0]
	if inception.ID != "27205" {
		t.Errorf("id = %q, want nested tmdbId to win over elem id", inception.ID)
	}
	if inception.LibraryID != "1f4425f1-1df4-4a85-b4ba-7e1a72ae2b9a" {
		t.Errorf("libraryId = %q, want matched media server id", inception.LibraryID)
	}
	if !inception.InLibrary {
		t.Error("available item should be in library")
	}

	saul := items[1]
	if saul.ID != "60059" || saul.Name != "Better Call Saul" {
		t.Errorf("elem-level fallbacks wrong: %+v", saul)
	}
	if saul.MediaType != core.MediaTypeShow {
		t.Errorf("mediaType = %q, want show", saul.MediaType)
	}
	if saul.Requestable {
		t.Error("already-requested item should not be requestable")
	}
}

func TestParseJellyseerrItemsItemsRootKey(t *testing.T) {
	b := &backend{base: mustParseURL(t, "http://seer.local"), apiKey: "key"}
	payload := decodePayload(t, `{"items": [{"id": 1, "title": "Dune", "mediaType": "movie"}]}`)

	items := parseJellyseerrItems(payload, b, core.MediaTypeMovie)
	if len(items) != 1 || items[0].Name != "Dune" {
		t.Fatalf("items root key not honored: %+v", items)
	}
}

func TestParseJellyseerrItemsBadShapes(t *testing.T) {
	b := &backend{base: mustParseURL(t, "http://seer.local"), apiKey: "key"}

	for name, raw := range map[string]string{
		"array root":      `[{"id": 1, "title": "Dune"}]`,
		"no list key":     `{"page": 1}`,
		"scalar elements": `{"results": [1, "two", null]}`,
		"string id":       `{"results": [{"id": "abc", "title": "Dune"}]}`,
		"missing title":   `{"results": [{"id": 1}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			if items := parseJellyseerrItems(decodePayload(t, raw), b, core.MediaTypeMovie); len(items) != 0 {
				t.Errorf("got %d items, want 0", len(items))
			}
		})
	}
}

func TestMatchedLibraryID(t *testing.T) {
	if got := matchedLibraryID(object{"jellyfinId": "not-a-uuid"}); got != "" {
		t.Errorf("invalid uuid should not match, got %q", got)
	}
	if got := matchedLibraryID(object{"jellyfinId": "  "}); got != "" {
		t.Errorf("blank id should not match, got %q", got)
	}
	if got := matchedLibraryID(nil); got != "" {
		t.Errorf("nil info should not match, got %q", got)
	}
	want := "1f4425f1-1df4-4a85-b4ba-7e1a72ae2b9a"
	if got := matchedLibraryID(object{"jellyfinId": want}); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFirstReleaseYear(t *testing.T) {
	year := firstReleaseYear(
		field{object{"releaseDate": "soon"}, "releaseDate"},
		field{object{"firstAirDate": "2011-04-17"}, "firstAirDate"},
	)
	if year != 2011 {
		t.Errorf("year = %d, want unparsable date skipped in favor of the next", year)
	}
	if got := firstReleaseYear(field{object{}, "releaseDate"}); got != 0 {
		t.Errorf("year = %d, want 0 when nothing parses", got)
	}
}

func TestBrokerAPIURL(t *testing.T) {
	base := mustParseURL(t, "http://seer.local/overseerr")
	got := brokerAPIURL(base, "discover/movies").String()
	want := "http://seer.local/overseerr/api/v1/discover/movies"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBrokerImageURLBlankPath(t *testing.T) {
	base := mustParseURL(t, "http://seer.local")
	if got := brokerImageURL(base, "  ", posterWidth); got != "" {
		t.Errorf("blank path should give no url, got %q", got)
	}
}
