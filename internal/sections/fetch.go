package sections

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// apiKeyHeader authenticates requests against every supported backend.
const apiKeyHeader = "X-Api-Key"

// fetchOutcome classifies why a backend call produced no payload. The
// distinction never crosses the adapter boundary, callers only see a nil
// payload, but it feeds the debug logs.
type fetchOutcome int

const (
	fetchOK fetchOutcome = iota
	fetchUnavailable // connection failure, timeout, cancellation
	fetchBadStatus   // non-2xx response
	fetchBadPayload  // empty or unparsable body
)

func (o fetchOutcome) String() string {
	switch o {
	case fetchOK:
		return "ok"
	case fetchUnavailable:
		return "backend unavailable"
	case fetchBadStatus:
		return "unexpected status"
	case fetchBadPayload:
		return "malformed payload"
	default:
		return "unknown"
	}
}

// fetchJSON performs an authenticated GET and decodes the body into a
// generic JSON tree. Every failure collapses to a nil payload; the outcome
// says why for logging purposes only.
func (s *Service) fetchJSON(ctx context.Context, u *url.URL, apiKey string) (any, fetchOutcome) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fetchUnavailable
	}
	if apiKey != "" {
		req.Header.Set(apiKeyHeader, apiKey)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fetchUnavailable
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fetchBadStatus
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fetchBadPayload
	}
	if payload == nil {
		return nil, fetchBadPayload
	}
	return payload, fetchOK
}
