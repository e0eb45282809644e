package core

import "context"

// MediaType classifies a section item.
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeShow    MediaType = "show"
	MediaTypeUnknown MediaType = "unknown"
)

// SectionType identifies one of the known section kinds. The value doubles
// as the stable section ID slug.
type SectionType string

const (
	SectionDiscoverMovies SectionType = "discover-movies"
	SectionDiscoverShows  SectionType = "discover-shows"
	SectionMyRequests     SectionType = "my-requests"
	SectionUpcomingMovies SectionType = "upcoming-movies"
	SectionUpcomingShows  SectionType = "upcoming-shows"
	SectionCustom         SectionType = "custom"
)

// SectionItem is a single discoverable or requestable media entry, normalized
// from whichever external service produced it.
type SectionItem struct {
	ID          string    `json:"id"`                    // backend-native identifier
	Name        string    `json:"name"`
	Year        int       `json:"year,omitempty"`        // 0 = unknown
	Overview    string    `json:"overview,omitempty"`
	PosterURL   string    `json:"posterUrl,omitempty"`   // fully resolved absolute URL
	BackdropURL string    `json:"backdropUrl,omitempty"`
	MediaType   MediaType `json:"mediaType"`
	InLibrary   bool      `json:"inLibrary"`             // already present on the media server
	Requestable bool      `json:"requestable"`           // eligible for a request action
	LibraryID   string    `json:"libraryId,omitempty"`   // matched media server item ID, blank when unmatched
}

// Section is an ordered, homogeneous group of items under one heading.
// A section with zero items is valid but means "no content"; adapters
// normally omit it instead.
type Section struct {
	ID    string        `json:"id"`              // stable slug derived from Type
	Title string        `json:"title,omitempty"` // optional override; empty = use type default
	Type  SectionType   `json:"type"`
	Items []SectionItem `json:"items"`
}

// SectionLoader is the read/write surface presentation layers consume.
// None of the operations return an error: an unconfigured, unreachable, or
// misbehaving backend collapses to an empty result or a false outcome.
type SectionLoader interface {
	// IsConfigured reports whether at least one external service is usable.
	IsConfigured() bool

	// LoadHomeSections loads every home section in fixed display order.
	LoadHomeSections(ctx context.Context) []Section

	// LoadDiscoverSections loads the request-broker sections only.
	LoadDiscoverSections(ctx context.Context) []Section

	// RequestItem submits a media request for the item to the request broker.
	RequestItem(ctx context.Context, item SectionItem) bool
}

// MediaServer exposes the primary media server for deep links and probes.
type MediaServer interface {
	// WatchLink builds a direct link to the item's detail page.
	WatchLink(itemID string) string

	// Ping checks that the server is reachable.
	Ping(ctx context.Context) error

	// Name returns the server name (e.g. "jellyfin").
	Name() string
}

// Frontend defines a user-facing frontend (CLI, Telegram).
type Frontend interface {
	// Start starts the frontend. It blocks until ctx is canceled.
	Start(ctx context.Context) error

	// Stop stops the frontend.
	Stop(ctx context.Context) error

	// SendMessage sends a message to the user.
	SendMessage(ctx context.Context, userID string, message string) error

	// Name returns the frontend name (e.g. "telegram").
	Name() string
}

// DisplayTitle returns the section heading: the explicit title override when
// set, otherwise a human-readable default for the section type.
func (s Section) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	switch s.Type {
	case SectionDiscoverMovies:
		return "Discover Movies"
	case SectionDiscoverShows:
		return "Discover Shows"
	case SectionMyRequests:
		return "My Requests"
	case SectionUpcomingMovies:
		return "Upcoming Movies"
	case SectionUpcomingShows:
		return "Upcoming Shows"
	default:
		return string(s.Type)
	}
}
