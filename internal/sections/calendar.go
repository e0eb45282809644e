package sections

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/homerelay/homerelay/internal/core"
)

const (
	dateLayout      = "2006-01-02"
	calendarBehind  = 1  // days before today included in the window
	calendarAhead   = 30 // days after today included in the window
	coverTypePoster = "poster"
	coverTypeFanart = "fanart"
)

// radarrSection fetches the Radarr calendar and turns it into the
// upcoming-movies section, nil when the backend misbehaves or the window
// holds nothing usable.
func (s *Service) radarrSection(ctx context.Context, b *backend) *core.Section {
	payload, outcome := s.fetchJSON(ctx, calendarURL(b, s.now()), b.apiKey)
	if payload == nil {
		s.logger.Debug("radarr calendar skipped", slog.String("reason", outcome.String()))
		return nil
	}

	items := parseRadarrItems(payload, b)
	if len(items) == 0 {
		return nil
	}
	return &core.Section{
		ID:    string(core.SectionUpcomingMovies),
		Type:  core.SectionUpcomingMovies,
		Items: items,
	}
}

// sonarrSection fetches the Sonarr calendar and turns it into the
// upcoming-shows section.
func (s *Service) sonarrSection(ctx context.Context, b *backend) *core.Section {
	payload, outcome := s.fetchJSON(ctx, calendarURL(b, s.now()), b.apiKey)
	if payload == nil {
		s.logger.Debug("sonarr calendar skipped", slog.String("reason", outcome.String()))
		return nil
	}

	items := parseSonarrItems(payload, b)
	if len(items) == 0 {
		return nil
	}
	return &core.Section{
		ID:    string(core.SectionUpcomingShows),
		Type:  core.SectionUpcomingShows,
		Items: items,
	}
}

// parseRadarrItems normalizes a Radarr calendar payload. The calendar is a
// flat JSON array of movies; any other root shape yields nothing. Items
// already downloaded stay in the section, flagged as in-library.
func parseRadarrItems(payload any, b *backend) []core.SectionItem {
	elements := asArray(payload)
	items := make([]core.SectionItem, 0, len(elements))
	for _, el := range elements {
		elem := asObject(el)
		if elem == nil {
			continue
		}
		title, ok := elem.str("title")
		if !ok {
			continue
		}
		id, ok := firstInt(field{elem, "tmdbId"}, field{elem, "id"})
		if !ok {
			continue
		}

		year, _ := elem.integer("year")
		overview, _ := elem.str("overview")
		hasFile, _ := elem.boolean("hasFile")
		images := elem.list("images")

		items = append(items, core.SectionItem{
			ID:          strconv.Itoa(id),
			Name:        title,
			Year:        year,
			Overview:    overview,
			PosterURL:   arrImageURL(images, b, coverTypePoster),
			BackdropURL: arrImageURL(images, b, coverTypeFanart),
			MediaType:   core.MediaTypeMovie,
			InLibrary:   hasFile,
			Requestable: false,
		})
	}
	return items
}

// parseSonarrItems normalizes a Sonarr calendar payload. Calendar entries
// are episodes; the series metadata lives in a "series" sub-object, with a
// bare seriesTitle fallback on older payloads.
func parseSonarrItems(payload any, b *backend) []core.SectionItem {
	elements := asArray(payload)
	items := make([]core.SectionItem, 0, len(elements))
	for _, el := range elements {
		elem := asObject(el)
		if elem == nil {
			continue
		}
		series := elem.child("series")
		title, ok := firstString(field{series, "title"}, field{elem, "seriesTitle"})
		if !ok {
			continue
		}
		id, ok := firstInt(field{series, "tvdbId"}, field{series, "id"})
		if !ok {
			continue
		}

		year, _ := series.integer("year")
		overview, _ := firstString(field{series, "overview"}, field{elem, "overview"})
		hasFile, _ := elem.boolean("hasFile")
		images := series.list("images")

		items = append(items, core.SectionItem{
			ID:          strconv.Itoa(id),
			Name:        title,
			Year:        year,
			Overview:    overview,
			PosterURL:   arrImageURL(images, b, coverTypePoster),
			BackdropURL: arrImageURL(images, b, coverTypeFanart),
			MediaType:   core.MediaTypeShow,
			InLibrary:   hasFile,
			Requestable: false,
		})
	}
	return items
}

// calendarURL builds the /api/v3/calendar request for a fixed window of
// yesterday through thirty days out.
func calendarURL(b *backend, now time.Time) *url.URL {
	u := *b.base
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v3/calendar"
	q := url.Values{}
	q.Set("start", now.AddDate(0, 0, -calendarBehind).Format(dateLayout))
	q.Set("end", now.AddDate(0, 0, calendarAhead).Format(dateLayout))
	u.RawQuery = q.Encode()
	return &u
}

// arrImageURL resolves an image of the wanted cover type from an *arr
// images array. The first matching entry wins: its remoteUrl when present
// and non-blank, otherwise its relative url resolved against the backend
// with the API key appended so the artwork is fetchable without headers.
func arrImageURL(images []any, b *backend, coverType string) string {
	for _, el := range images {
		img := asObject(el)
		if img == nil {
			continue
		}
		ct, _ := img.str("coverType")
		if !strings.EqualFold(ct, coverType) {
			continue
		}

		if remote, ok := img.str("remoteUrl"); ok && strings.TrimSpace(remote) != "" {
			return remote
		}
		rel, ok := img.str("url")
		if !ok {
			return ""
		}
		ref, err := url.Parse(rel)
		if err != nil {
			return ""
		}
		resolved := b.base.ResolveReference(ref)
		q := resolved.Query()
		q.Set("apikey", b.apiKey)
		resolved.RawQuery = q.Encode()
		return resolved.String()
	}
	return ""
}
