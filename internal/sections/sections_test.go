package sections

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/homerelay/homerelay/internal/core"
	"github.com/homerelay/homerelay/internal/httpclient"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// brokerResults wraps listing elements in the broker's envelope.
const (
	discoverMoviesBody = `{"results": [{"id": 603, "title": "The Matrix", "mediaType": "movie"}]}`
	discoverShowsBody  = `{"results": [{"id": 1399, "name": "Game of Thrones", "mediaType": "tv"}]}`
	myRequestsBody     = `{"results": [{"id": 7, "media": {"tmdbId": 27205, "title": "Inception", "mediaType": "movie"}}]}`
	sonarrCalendarBody = `[{"id": 1, "series": {"tvdbId": 121361, "title": "Game of Thrones"}}]`
	radarrCalendarBody = `[{"id": 2, "tmdbId": 603, "title": "The Matrix"}]`
)

// newStubServer serves canned bodies for every endpoint the loader hits and
// records the API key it saw last.
func newStubServer(t *testing.T, bodies map[string]string) (*httptest.Server, *string) {
	t.Helper()
	var lastKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastKey = r.Header.Get("X-Api-Key")
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &lastKey
}

func TestLoadHomeSectionsOrder(t *testing.T) {
	server, _ := newStubServer(t, map[string]string{
		"/api/v1/discover/movies": discoverMoviesBody,
		"/api/v1/discover/tv":     discoverShowsBody,
		"/api/v1/request":         myRequestsBody,
		"/api/v3/calendar":        sonarrCalendarBody,
	})

	// Radarr deliberately points at a dead port so its section is skipped.
	svc := New(Settings{
		JellyseerrURL:    server.URL,
		JellyseerrAPIKey: "seer-key",
		SonarrURL:        server.URL,
		SonarrAPIKey:     "sonarr-key",
		RadarrURL:        "http://127.0.0.1:1",
		RadarrAPIKey:     "radarr-key",
	}, discardLogger())

	got := svc.LoadHomeSections(context.Background())
	want := []core.SectionType{
		core.SectionDiscoverMovies,
		core.SectionDiscoverShows,
		core.SectionMyRequests,
		core.SectionUpcomingShows,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d sections, want %d: %+v", len(got), len(want), got)
	}
	for i, sec := range got {
		if sec.Type != want[i] {
			t.Errorf("section %d type = %q, want %q", i, sec.Type, want[i])
		}
		if sec.ID != string(want[i]) {
			t.Errorf("section %d id = %q, want %q", i, sec.ID, want[i])
		}
		if len(sec.Items) == 0 {
			t.Errorf("section %q has no items", sec.Type)
		}
	}
}

func TestLoadHomeSectionsRequestListingNotRequestable(t *testing.T) {
	server, lastKey := newStubServer(t, map[string]string{
		"/api/v1/discover/movies": `{"results": []}`,
		"/api/v1/discover/tv":     `{"results": []}`,
		"/api/v1/request":         myRequestsBody,
	})

	svc := New(Settings{JellyseerrURL: server.URL, JellyseerrAPIKey: "seer-key"}, discardLogger())

	got := svc.LoadHomeSections(context.Background())
	if len(got) != 1 || got[0].Type != core.SectionMyRequests {
		t.Fatalf("expected only my-requests, got %+v", got)
	}
	for _, item := range got[0].Items {
		if item.Requestable {
			t.Errorf("request listing item should never be requestable: %+v", item)
		}
	}
	if *lastKey != "seer-key" {
		t.Errorf("api key header = %q, want %q", *lastKey, "seer-key")
	}
}

func TestLoadDiscoverSectionsExcludesCalendars(t *testing.T) {
	server, _ := newStubServer(t, map[string]string{
		"/api/v1/discover/movies": discoverMoviesBody,
		"/api/v1/discover/tv":     discoverShowsBody,
		"/api/v1/request":         myRequestsBody,
		"/api/v3/calendar":        sonarrCalendarBody,
	})

	svc := New(Settings{
		JellyseerrURL:    server.URL,
		JellyseerrAPIKey: "seer-key",
		SonarrURL:        server.URL,
		SonarrAPIKey:     "sonarr-key",
	}, discardLogger())

	got := svc.LoadDiscoverSections(context.Background())
	want := []core.SectionType{
		core.SectionDiscoverMovies,
		core.SectionDiscoverShows,
		core.SectionMyRequests,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d sections, want %d: %+v", len(got), len(want), got)
	}
	for i, sec := range got {
		if sec.Type != want[i] {
			t.Errorf("section %d type = %q, want %q", i, sec.Type, want[i])
		}
	}
}

func TestLoadDiscoverSectionsNoBroker(t *testing.T) {
	server, _ := newStubServer(t, map[string]string{
		"/api/v3/calendar": sonarrCalendarBody,
	})

	svc := New(Settings{SonarrURL: server.URL, SonarrAPIKey: "sonarr-key"}, discardLogger())
	if got := svc.LoadDiscoverSections(context.Background()); len(got) != 0 {
		t.Errorf("discover without a broker should be empty, got %+v", got)
	}
}

func TestIsConfigured(t *testing.T) {
	if New(Settings{}, discardLogger()).IsConfigured() {
		t.Error("empty settings should not be configured")
	}
	svc := New(Settings{RadarrURL: "http://radarr.local", RadarrAPIKey: "key"}, discardLogger())
	if !svc.IsConfigured() {
		t.Error("one complete backend should be enough")
	}
}

// trippedTransport fails the test if any request gets through.
type trippedTransport struct {
	t *testing.T
}

func (tt trippedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tt.t.Errorf("unexpected HTTP request to %s", req.URL)
	return nil, errors.New("no transport in this test")
}

func TestUnconfiguredLoaderMakesNoRequests(t *testing.T) {
	client := httpclient.NewWithHTTPClient(
		httpclient.SingleAttempt(),
		&http.Client{Transport: trippedTransport{t}},
		discardLogger(),
	)
	svc := New(Settings{JellyseerrURL: "http://seer.local"}, discardLogger(), WithHTTPClient(client))

	ctx := context.Background()
	if got := svc.LoadHomeSections(ctx); len(got) != 0 {
		t.Errorf("home sections = %+v, want none", got)
	}
	if got := svc.LoadDiscoverSections(ctx); len(got) != 0 {
		t.Errorf("discover sections = %+v, want none", got)
	}
	if svc.RequestItem(ctx, core.SectionItem{ID: "603", MediaType: core.MediaTypeMovie}) {
		t.Error("request against an unconfigured broker should fail")
	}
}

func TestLoadHomeSectionsBrokenBackendsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/discover/movies":
			w.WriteHeader(http.StatusInternalServerError)
		case "/api/v1/discover/tv":
			_, _ = w.Write([]byte(`{not json`))
		default:
			_, _ = w.Write([]byte(`{"results": []}`))
		}
	}))
	t.Cleanup(server.Close)

	svc := New(Settings{JellyseerrURL: server.URL, JellyseerrAPIKey: "key"}, discardLogger())
	if got := svc.LoadHomeSections(context.Background()); len(got) != 0 {
		t.Errorf("broken backends should contribute nothing, got %+v", got)
	}
}
