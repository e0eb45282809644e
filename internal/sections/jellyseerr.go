package sections

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/homerelay/homerelay/internal/core"
)

const (
	sectionLimit  = 20
	posterWidth   = 500
	backdropWidth = 1280
)

// brokerListing describes one Jellyseerr listing endpoint.
type brokerListing struct {
	sectionType core.SectionType
	path        string         // path below /api/v1
	defaultType core.MediaType // media type when the element does not say
	statusView  bool           // items are a status display, never requestable
}

var (
	discoverMoviesListing = brokerListing{
		sectionType: core.SectionDiscoverMovies,
		path:        "discover/movies",
		defaultType: core.MediaTypeMovie,
	}
	discoverShowsListing = brokerListing{
		sectionType: core.SectionDiscoverShows,
		path:        "discover/tv",
		defaultType: core.MediaTypeShow,
	}
	myRequestsListing = brokerListing{
		sectionType: core.SectionMyRequests,
		path:        "request",
		defaultType: core.MediaTypeUnknown,
		statusView:  true,
	}
)

// jellyseerrSection fetches and parses one broker listing. It returns nil,
// never an error, when the backend misbehaves or yields no usable items.
func (s *Service) jellyseerrSection(ctx context.Context, b *backend, l brokerListing) *core.Section {
	u := brokerAPIURL(b.base, l.path)
	q := url.Values{}
	q.Set("take", strconv.Itoa(sectionLimit))
	u.RawQuery = q.Encode()

	payload, outcome := s.fetchJSON(ctx, u, b.apiKey)
	if payload == nil {
		s.logger.Debug("jellyseerr listing skipped",
			slog.String("section", string(l.sectionType)),
			slog.String("reason", outcome.String()),
		)
		return nil
	}

	items := parseJellyseerrItems(payload, b, l.defaultType)
	if l.statusView {
		for i := range items {
			items[i].Requestable = false
		}
	}
	if len(items) == 0 {
		return nil
	}

	return &core.Section{
		ID:    string(l.sectionType),
		Type:  l.sectionType,
		Items: items,
	}
}

// parseJellyseerrItems normalizes a broker listing payload. The broker
// answers with two shapes: discover listings put media fields at the top
// level of each result, the request listing nests them under "media" and
// keeps request bookkeeping at the top level. Both are handled by always
// preferring the nested object and falling back to the element itself.
func parseJellyseerrItems(payload any, b *backend, defaultType core.MediaType) []core.SectionItem {
	root := asObject(payload)
	results := root.list("results")
	if results == nil {
		results = root.list("items")
	}
	if results == nil {
		return nil
	}

	items := make([]core.SectionItem, 0, len(results))
	for _, el := range results {
		elem := asObject(el)
		if elem == nil {
			continue
		}

		data := elem.child("media")
		if data == nil {
			data = elem
		}

		// Elements without any known identifier or title are unusable.
		id, ok := firstInt(
			field{data, "id"},
			field{data, "tmdbId"},
			field{elem, "mediaId"},
			field{elem, "id"},
		)
		if !ok {
			continue
		}
		name, ok := firstString(
			field{data, "title"},
			field{data, "name"},
			field{elem, "title"},
			field{elem, "name"},
		)
		if !ok {
			continue
		}

		mediaType := defaultType
		if raw, ok := firstString(field{data, "mediaType"}, field{elem, "mediaType"}); ok {
			switch strings.ToLower(raw) {
			case "movie":
				mediaType = core.MediaTypeMovie
			case "tv":
				mediaType = core.MediaTypeShow
			}
		}

		overview, _ := firstString(field{data, "overview"}, field{elem, "overview"})
		posterPath, _ := firstString(field{data, "posterPath"}, field{elem, "posterPath"})
		backdropPath, _ := firstString(field{data, "backdropPath"}, field{elem, "backdropPath"})

		year, ok := firstInt(field{data, "year"}, field{elem, "year"})
		if !ok {
			year = firstReleaseYear(
				field{data, "releaseDate"},
				field{data, "firstAirDate"},
				field{elem, "releaseDate"},
				field{elem, "firstAirDate"},
			)
		}

		info := data.child("mediaInfo")
		if info == nil {
			info = elem.child("mediaInfo")
		}
		status, _ := info.str("status")
		libraryID := matchedLibraryID(info)

		requested := false
		if v, ok := elem.boolean("requested"); ok && v {
			requested = true
		}
		if n, ok := elem.integer("requestCount"); ok && n > 0 {
			requested = true
		}
		if _, ok := info.str("requestStatus"); ok {
			requested = true
		}

		inLibrary := status == "AVAILABLE" || status == "PARTIALLY_AVAILABLE" || libraryID != ""

		items = append(items, core.SectionItem{
			ID:          strconv.Itoa(id),
			Name:        name,
			Year:        year,
			Overview:    overview,
			PosterURL:   brokerImageURL(b.base, posterPath, posterWidth),
			BackdropURL: brokerImageURL(b.base, backdropPath, backdropWidth),
			MediaType:   mediaType,
			InLibrary:   inLibrary,
			Requestable: !inLibrary && !requested,
			LibraryID:   libraryID,
		})
	}
	return items
}

// firstReleaseYear reads the first candidate whose leading four characters
// parse as a year. A present but unparsable date just moves on to the next
// candidate.
func firstReleaseYear(candidates ...field) int {
	for _, c := range candidates {
		s, ok := c.o.str(c.key)
		if !ok {
			continue
		}
		if len(s) > 4 {
			s = s[:4]
		}
		if year, err := strconv.Atoi(s); err == nil {
			return year
		}
	}
	return 0
}

// matchedLibraryID returns the media server item ID the broker correlated,
// blank unless it is a well-formed UUID.
func matchedLibraryID(info object) string {
	raw, ok := info.str("jellyfinId")
	if !ok || strings.TrimSpace(raw) == "" {
		return ""
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return ""
	}
	return id.String()
}

// brokerAPIURL joins a path below the broker's versioned API root. The
// base URL arrives with trailing slashes already stripped.
func brokerAPIURL(base *url.URL, path string) *url.URL {
	u := *base
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1/" + path
	u.RawQuery = ""
	return &u
}

// brokerImageURL synthesizes a proxy image link through the broker's own
// image endpoint. A blank source path yields no URL.
func brokerImageURL(base *url.URL, path string, width int) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	u := brokerAPIURL(base, "image")
	q := url.Values{}
	q.Set("path", path)
	q.Set("width", strconv.Itoa(width))
	u.RawQuery = q.Encode()
	return u.String()
}
