package sections

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/homerelay/homerelay/internal/core"
)

// brokerRequest is the payload Jellyseerr expects on POST /api/v1/request.
type brokerRequest struct {
	MediaType string `json:"mediaType"`
	MediaID   int    `json:"mediaId"`
}

// RequestItem submits a media request for the given item through the request
// broker. It reports whether the broker accepted the request. Any failure
// (broker unconfigured, unparseable item ID, unknown media type, transport
// error, non-2xx status) yields false without surfacing an error.
func (s *Service) RequestItem(ctx context.Context, item core.SectionItem) bool {
	b := resolve(s.settings).jellyseerr
	if b == nil {
		s.logger.Debug("request skipped, broker not configured")
		return false
	}

	mediaID, err := strconv.Atoi(item.ID)
	if err != nil {
		s.logger.Warn("request skipped, item has no numeric id", "id", item.ID)
		return false
	}

	var mediaType string
	switch item.MediaType {
	case core.MediaTypeMovie:
		mediaType = "movie"
	case core.MediaTypeShow:
		mediaType = "tv"
	default:
		s.logger.Warn("request skipped, unknown media type", "mediaType", item.MediaType)
		return false
	}

	body, err := json.Marshal(brokerRequest{MediaType: mediaType, MediaID: mediaID})
	if err != nil {
		return false
	}

	u := brokerAPIURL(b.base, "request")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, b.apiKey)

	resp, err := s.http.Do(req)
	if err != nil {
		s.logger.Warn("request submission failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Warn("broker rejected request", "status", resp.StatusCode, "mediaId", mediaID)
		return false
	}

	s.logger.Info("media requested", "mediaType", mediaType, "mediaId", mediaID)
	return true
}
