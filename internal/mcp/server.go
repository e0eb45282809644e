// Package mcp exposes HomeRelay's sections over the Model Context Protocol
// so LLM clients can browse and request media.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/homerelay/homerelay/internal/core"
)

// Deps holds backend dependencies for MCP tool handlers.
type Deps struct {
	Loader core.SectionLoader
	Media  core.MediaServer
}

// Server wraps an MCP SDK server with HomeRelay tool handlers.
type Server struct {
	server *mcpsdk.Server
	deps   Deps
	logger *slog.Logger
}

// NewServer creates an MCP server with all HomeRelay tools registered.
func NewServer(deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "homerelay",
			Version: "0.1.0",
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{server: s, deps: deps, logger: logger}
	srv.registerTools()
	return srv
}

// ServeStdio runs the MCP server over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcpsdk.StdioTransport{})
}

// MCPServer returns the underlying MCP SDK server (for testing).
func (s *Server) MCPServer() *mcpsdk.Server {
	return s.server
}

func (s *Server) registerTools() {
	s.server.AddTool(listHomeSectionsTool(), s.handleListHomeSections)
	s.server.AddTool(listDiscoverSectionsTool(), s.handleListDiscoverSections)
	s.server.AddTool(requestItemTool(), s.handleRequestItem)
	s.server.AddTool(serviceStatusTool(), s.handleServiceStatus)
	s.server.AddTool(getWatchLinkTool(), s.handleGetWatchLink)
}

// Tool definitions.

func listHomeSectionsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "list_home_sections",
		Description: "List all home sections: discover movies, discover shows, my requests, upcoming shows and upcoming movies. Each section carries normalized media items.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

func listDiscoverSectionsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "list_discover_sections",
		Description: "List the request broker's sections only: discover movies, discover shows and my requests. Upcoming calendars are excluded.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

func requestItemTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "request_item",
		Description: "Submit a media request to the request broker. Use the id and mediaType from a section item.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"media_id": map[string]any{
					"type":        "integer",
					"description": "The item's id from a section listing",
				},
				"media_type": map[string]any{
					"type":        "string",
					"description": "The item's media type: 'movie' or 'show'",
				},
			},
			"required": []any{"media_id", "media_type"},
		},
	}
}

func serviceStatusTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "service_status",
		Description: "Report whether any external media services are configured and whether the media server answers.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

func getWatchLinkTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "get_watch_link",
		Description: "Get a direct media server link for an item that is already in the library. Use the libraryId from a section item.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"library_id": map[string]any{
					"type":        "string",
					"description": "The item's libraryId from a section listing",
				},
			},
			"required": []any{"library_id"},
		},
	}
}

// Tool handlers.

func (s *Server) handleListHomeSections(ctx context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Loader == nil {
		return toolError("no section loader configured"), nil
	}
	return toolJSON(s.deps.Loader.LoadHomeSections(ctx))
}

func (s *Server) handleListDiscoverSections(ctx context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Loader == nil {
		return toolError("no section loader configured"), nil
	}
	return toolJSON(s.deps.Loader.LoadDiscoverSections(ctx))
}

func (s *Server) handleRequestItem(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Loader == nil {
		return toolError("no section loader configured"), nil
	}

	mediaID, err := extractIntFromArgs(req.Params.Arguments, "media_id")
	if err != nil {
		return toolError(err.Error()), nil
	}
	mediaType, err := extractStringFromArgs(req.Params.Arguments, "media_type")
	if err != nil {
		return toolError(err.Error()), nil
	}
	if mediaType != string(core.MediaTypeMovie) && mediaType != string(core.MediaTypeShow) {
		return toolError("media_type must be 'movie' or 'show'"), nil
	}

	item := core.SectionItem{
		ID:        strconv.Itoa(mediaID),
		MediaType: core.MediaType(mediaType),
	}
	ok := s.deps.Loader.RequestItem(ctx, item)

	return toolJSON(map[string]any{
		"submitted":  ok,
		"media_id":   mediaID,
		"media_type": mediaType,
	})
}

func (s *Server) handleServiceStatus(ctx context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	status := map[string]any{
		"configured": s.deps.Loader != nil && s.deps.Loader.IsConfigured(),
	}
	if s.deps.Media != nil {
		status["media_server"] = s.deps.Media.Name()
		if err := s.deps.Media.Ping(ctx); err != nil {
			status["media_server_error"] = err.Error()
		} else {
			status["media_server_reachable"] = true
		}
	}
	return toolJSON(status)
}

func (s *Server) handleGetWatchLink(_ context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Media == nil {
		return toolError("no media server configured"), nil
	}

	libraryID, err := extractStringFromArgs(req.Params.Arguments, "library_id")
	if err != nil {
		return toolError(err.Error()), nil
	}

	link := s.deps.Media.WatchLink(libraryID)
	if link == "" {
		return toolError("no watch link for this item"), nil
	}

	return toolJSON(map[string]any{
		"library_id": libraryID,
		"link":       link,
	})
}

// Helper functions.

// toolJSON marshals v to JSON and returns it as text content.
func toolJSON(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

// toolError returns a tool result indicating an error.
func toolError(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
		IsError: true,
	}
}

// extractIntFromArgs extracts an integer argument from raw JSON arguments.
func extractIntFromArgs(raw json.RawMessage, key string) (int, error) {
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return 0, fmt.Errorf("invalid arguments: %w", err)
	}

	val, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}

	switch v := val.(type) {
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", key, val)
	}
}

// extractStringFromArgs extracts a string argument from raw JSON arguments.
func extractStringFromArgs(raw json.RawMessage, key string) (string, error) {
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	val, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}

	s, ok := val.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s must be a non-empty string", key)
	}
	return s, nil
}
