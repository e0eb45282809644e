// Package jellyfin implements core.MediaServer against a Jellyfin server.
package jellyfin

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/homerelay/homerelay/internal/core"
	"github.com/homerelay/homerelay/internal/httpclient"
)

const maxErrorBodyBytes = 4096

// Client implements core.MediaServer for Jellyfin.
type Client struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
	logger  *slog.Logger
}

var _ core.MediaServer = (*Client)(nil)

// New creates a new Jellyfin client.
func New(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		http:    httpclient.New(httpclient.DefaultConfig(), logger),
		logger:  logger,
	}
}

// WatchLink builds a direct link to the item's detail page in the web UI.
// The item ID is the server's own identifier, as correlated by the request
// broker.
func (c *Client) WatchLink(itemID string) string {
	if itemID == "" {
		return ""
	}
	return fmt.Sprintf("%s/web/index.html#!/details?id=%s", c.baseURL, itemID)
}

// Ping checks that the server answers its public system info endpoint.
// The endpoint needs no authentication, so a pong proves reachability but
// not a valid API key.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/System/Info/Public", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("jellyfin ping: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("jellyfin API error %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Name returns the server name.
func (c *Client) Name() string { return "jellyfin" }
