package sections

import (
	"net/url"
	"strings"
)

// Settings carries the raw stored strings for every supported external
// service. Blank values mean "unset"; nothing here is validated, that is
// the resolver's job.
type Settings struct {
	JellyseerrURL    string
	JellyseerrAPIKey string
	RadarrURL        string
	RadarrAPIKey     string
	SonarrURL        string
	SonarrAPIKey     string
}

// backend is a resolved, usable external service.
type backend struct {
	base   *url.URL
	apiKey string
}

// resolved is the validated view of Settings. A nil field means that
// backend is absent for this invocation.
type resolved struct {
	jellyseerr *backend
	radarr     *backend
	sonarr     *backend
}

// resolve normalizes the stored settings. It is cheap and side-effect free;
// the service re-runs it at the top of every load and request call so
// settings changes take effect immediately.
func resolve(s Settings) resolved {
	return resolved{
		jellyseerr: resolveBackend(s.JellyseerrURL, s.JellyseerrAPIKey),
		radarr:     resolveBackend(s.RadarrURL, s.RadarrAPIKey),
		sonarr:     resolveBackend(s.SonarrURL, s.SonarrAPIKey),
	}
}

// resolveBackend normalizes one backend config: trim both values, strip
// trailing slashes from the URL, and parse it. Blank or unparsable input
// means the backend is absent, never an error.
func resolveBackend(rawURL, rawKey string) *backend {
	cleaned := strings.TrimRight(strings.TrimSpace(rawURL), "/")
	key := strings.TrimSpace(rawKey)
	if cleaned == "" || key == "" {
		return nil
	}

	u, err := url.Parse(cleaned)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil
	}

	return &backend{base: u, apiKey: key}
}

// configured reports whether at least one backend is usable.
func (r resolved) configured() bool {
	return r.jellyseerr != nil || r.radarr != nil || r.sonarr != nil
}
