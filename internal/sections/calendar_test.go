package sections

import (
	"testing"
	"time"

	"github.com/homerelay/homerelay/internal/core"
)

func TestCalendarURL(t *testing.T) {
	b := &backend{base: mustParseURL(t, "http://radarr.local:7878"), apiKey: "key"}
	now := time.Date(2025, time.March, 15, 12, 30, 0, 0, time.UTC)

	got := calendarURL(b, now).String()
	want := "http://radarr.local:7878/api/v3/calendar?end=2025-04-14&start=2025-03-14"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseRadarrItems(t *testing.T) {
	b := &backend{base: mustParseURL(t, "http://radarr.local"), apiKey: "rkey"}
	payload := decodePayload(t, `[
		{
			"id": 12,
			"tmdbId": 603,
			"title": "The Matrix",
			"year": 1999,
			"overview": "A hacker learns the truth.",
			"hasFile": false,
			"images": [
				{"coverType": "Poster", "remoteUrl": "https://images.example/matrix.jpg"},
				{"coverType": "fanart", "url": "/MediaCover/12/fanart.jpg"}
			]
		},
		{
			"id": 13,
			"title": "Already Here",
			"hasFile": true
		},
		{"id": 14}
	]`)

	items := parseRadarrItems(payload, b)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	matrix := items[0]
	if matrix.ID != "603" {
		t.Errorf("id = %q, want tmdbId to win over internal id", matrix.ID)
	}
	if matrix.MediaType != core.MediaTypeMovie {
		t.Errorf("mediaType = %q, want movie", matrix.MediaType)
	}
	if matrix.Requestable {
		t.Error("calendar items are never requestable")
	}
	if matrix.PosterURL != "https://images.example/matrix.jpg" {
		t.Errorf("posterUrl = %q, want the remote url untouched", matrix.PosterURL)
	}
	wantBackdrop := "http://radarr.local/MediaCover/12/fanart.jpg?apikey=rkey"
	if matrix.BackdropURL != wantBackdrop {
		t.Errorf("backdropUrl = %q, want %q", matrix.BackdropURL, wantBackdrop)
	}

	here := items[1]
	if here.ID != "13" {
		t.Errorf("id = %q, want internal id fallback", here.ID)
	}
	if !here.InLibrary {
		t.Error("downloaded item should be flagged in library")
	}
}

func TestParseSonarrItems(t *testing.T) {
	b := &backend{base: mustParseURL(t, "http://sonarr.local"), apiKey: "skey"}
	payload := decodePayload(t, `[
		{
			"id": 9001,
			"title": "Winter Is Coming",
			"hasFile": false,
			"overview": "An episode synopsis that must not leak through.",
			"series": {
				"id": 5,
				"tvdbId": 121361,
				"title": "Game of Thrones",
				"year": 2011,
				"overview": "Noble families vie for the throne.",
				"images": [{"coverType": "poster", "remoteUrl": "https://images.example/got.jpg"}]
			}
		},
		{
			"id": 9002,
			"seriesTitle": "Orphaned Episode"
		},
		{
			"id": 9003,
			"seriesTitle": "No Series Object, No ID"
		}
	]`)

	items := parseSonarrItems(payload, b)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	got := items[0]
	if got.ID != "121361" {
		t.Errorf("id = %q, want series tvdbId", got.ID)
	}
	if got.Name != "Game of Thrones" {
		t.Errorf("name = %q, want series title over episode title", got.Name)
	}
	if got.Overview != "Noble families vie for the throne." {
		t.Errorf("overview = %q, want the series overview", got.Overview)
	}
	if got.MediaType != core.MediaTypeShow || got.Year != 2011 {
		t.Errorf("series metadata wrong: %+v", got)
	}
	if got.PosterURL != "https://images.example/got.jpg" {
		t.Errorf("posterUrl = %q, want series image", got.PosterURL)
	}
}

func TestParseCalendarBadShapes(t *testing.T) {
	b := &backend{base: mustParseURL(t, "http://arr.local"), apiKey: "key"}

	for name, raw := range map[string]string{
		"object root": `{"error": "NotFound"}`,
		"scalar root": `42`,
		"mixed array": `[null, "text", 7]`,
	} {
		t.Run(name, func(t *testing.T) {
			payload := decodePayload(t, raw)
			if items := parseRadarrItems(payload, b); len(items) != 0 {
				t.Errorf("radarr: got %d items, want 0", len(items))
			}
			if items := parseSonarrItems(payload, b); len(items) != 0 {
				t.Errorf("sonarr: got %d items, want 0", len(items))
			}
		})
	}
}

func TestArrImageURL(t *testing.T) {
	b := &backend{base: mustParseURL(t, "http://arr.local:7878"), apiKey: "key"}

	t.Run("first matching cover type wins", func(t *testing.T) {
		images := asArray(decodePayload(t, `[
			{"coverType": "poster", "url": "/first.jpg"},
			{"coverType": "poster", "remoteUrl": "https://images.example/second.jpg"}
		]`))
		want := "http://arr.local:7878/first.jpg?apikey=key"
		if got := arrImageURL(images, b, coverTypePoster); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("no match", func(t *testing.T) {
		images := asArray(decodePayload(t, `[{"coverType": "banner", "url": "/b.jpg"}]`))
		if got := arrImageURL(images, b, coverTypePoster); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("match without any url", func(t *testing.T) {
		images := asArray(decodePayload(t, `[{"coverType": "poster"}]`))
		if got := arrImageURL(images, b, coverTypePoster); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
}
