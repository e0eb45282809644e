// Package sections aggregates discovery and upcoming-release listings from
// external media services (a Jellyseerr request broker and the
// Radarr/Sonarr pair) into a uniform list of sections.
//
// Each backend is optional and each call recomputes from live responses;
// nothing is cached between invocations. A backend that is unconfigured,
// unreachable, or answering garbage simply contributes no section.
package sections

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/homerelay/homerelay/internal/core"
	"github.com/homerelay/homerelay/internal/httpclient"
)

// Home section slots, in display order. Sections are assembled by slot so
// the emitted order never depends on which backend answered first.
const (
	slotDiscoverMovies = iota
	slotDiscoverShows
	slotMyRequests
	slotUpcomingShows
	slotUpcomingMovies
	slotCount
)

// Service aggregates external media services into display sections.
// It implements core.SectionLoader and is safe for concurrent use.
type Service struct {
	settings Settings
	http     *httpclient.Client
	logger   *slog.Logger
	now      func() time.Time
}

var _ core.SectionLoader = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithHTTPClient replaces the shared HTTP client (tests, custom transports).
func WithHTTPClient(c *httpclient.Client) Option {
	return func(s *Service) {
		s.http = c
	}
}

// WithClock replaces the time source used for calendar windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a section aggregation service. The HTTP client deliberately
// does not retry: a failed response is terminal for the invocation and the
// backend's section is omitted this time around.
func New(settings Settings, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.http == nil {
		s.http = httpclient.New(httpclient.SingleAttempt(), logger)
	}
	return s
}

// IsConfigured reports whether at least one external service is usable.
// Cheap enough to consult before every load.
func (s *Service) IsConfigured() bool {
	return resolve(s.settings).configured()
}

// LoadHomeSections loads every home section: the broker's discover-movies,
// discover-shows, and my-requests listings, then upcoming-shows and
// upcoming-movies from the automation services. Backends are queried
// concurrently; the result order is fixed regardless of completion order,
// and absent or empty sections are omitted rather than padded.
func (s *Service) LoadHomeSections(ctx context.Context) []core.Section {
	r := resolve(s.settings)
	slots := make([]*core.Section, slotCount)

	g, ctx := errgroup.WithContext(ctx)
	if b := r.jellyseerr; b != nil {
		g.Go(func() error {
			slots[slotDiscoverMovies] = s.jellyseerrSection(ctx, b, discoverMoviesListing)
			return nil
		})
		g.Go(func() error {
			slots[slotDiscoverShows] = s.jellyseerrSection(ctx, b, discoverShowsListing)
			return nil
		})
		g.Go(func() error {
			slots[slotMyRequests] = s.jellyseerrSection(ctx, b, myRequestsListing)
			return nil
		})
	}
	if b := r.sonarr; b != nil {
		g.Go(func() error {
			slots[slotUpcomingShows] = s.sonarrSection(ctx, b)
			return nil
		})
	}
	if b := r.radarr; b != nil {
		g.Go(func() error {
			slots[slotUpcomingMovies] = s.radarrSection(ctx, b)
			return nil
		})
	}
	_ = g.Wait() // adapters never return errors; Wait is just the barrier

	return assemble(slots)
}

// LoadDiscoverSections loads the request-broker sections only; the
// automation services' upcoming listings are excluded from this view.
func (s *Service) LoadDiscoverSections(ctx context.Context) []core.Section {
	r := resolve(s.settings)
	slots := make([]*core.Section, slotMyRequests+1)

	b := r.jellyseerr
	if b == nil {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slots[slotDiscoverMovies] = s.jellyseerrSection(ctx, b, discoverMoviesListing)
		return nil
	})
	g.Go(func() error {
		slots[slotDiscoverShows] = s.jellyseerrSection(ctx, b, discoverShowsListing)
		return nil
	})
	g.Go(func() error {
		slots[slotMyRequests] = s.jellyseerrSection(ctx, b, myRequestsListing)
		return nil
	})
	_ = g.Wait()

	return assemble(slots)
}

// assemble compacts the fixed slots into the final ordered section list.
func assemble(slots []*core.Section) []core.Section {
	sections := make([]core.Section, 0, len(slots))
	for _, sec := range slots {
		if sec != nil {
			sections = append(sections, *sec)
		}
	}
	return sections
}
