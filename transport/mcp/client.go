package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/route-plotter/route/engine"
	"github.com/wricardo/route-plotter/route/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Route Plotter",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Route Plotter - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Each session tracks a route on a grid. Column 1 is on the left, row 1 is at
the bottom. Moves are single letters: N (up), S (down), E (right), W (left).
Moves that would leave the grid are rejected and the route is unchanged.

AVAILABLE TOOLS:
- create_session: Start a route at a given cell
- load_route: Load a route description (start X, start Y, then one move per line)
- list_sessions: List all active sessions
- get_route: Get the coordinates, rendered grid and statistics of a route
- move: Single move
- bulk_move: Several moves at once
- remove_coordinate: Remove the last coordinate or one at an index
- delete_session: Delete a session
- list_profiles: List grid profiles
- route_instructions: Detailed description of the grid and route format`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new route session, optionally choosing a profile and start cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"profile": map[string]interface{}{
					"type":        "string",
					"description": "Profile ID from list_profiles (optional)",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Start column, 1-based (default 1)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Start row, 1-based (default 1)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "load_route",
		Description: "Create a session from a route description: start X on line 1, start Y on line 2, then one of N/S/E/W per line",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"profile": map[string]interface{}{
					"type":        "string",
					"description": "Profile ID from list_profiles (optional)",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Route description text",
				},
			},
			Required: []string{"description"},
		},
	}, c.handleLoadRoute)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active route sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a route session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleDeleteSession)

	// Route operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_route",
		Description: "Get the coordinates, rendered grid and statistics of a route",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetRoute)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Extend the route by one step",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"N", "S", "E", "W"},
					"description": "Direction to move",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: "Extend the route by several steps. Unknown tokens are skipped; the first move off the grid stops the sequence.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"N", "S", "E", "W"},
					},
					"description": fmt.Sprintf("Array of moves (at most %d)", engine.MaxBulkMoves),
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "remove_coordinate",
		Description: "Remove a coordinate from the route. Without an index the last coordinate is removed; negative indices count from the end. The only remaining coordinate cannot be removed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "0-based index (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRemoveCoordinate)

	// Profiles and help
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_profiles",
		Description: "List available grid profiles",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListProfiles)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "route_instructions",
		Description: "Get a description of the grid, the move tokens and the route description format",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleRouteInstructions)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs a REST call and decodes a JSON response into result.
// When result is a *string the raw body is stored instead.
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	switch out := result.(type) {
	case nil:
		return nil
	case *string:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		*out = string(data)
		return nil
	default:
		return json.NewDecoder(resp.Body).Decode(result)
	}
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]interface{}{}
	if profile := request.GetString("profile", ""); profile != "" {
		body["profile"] = profile
	}
	args := request.GetArguments()
	_, hasX := args["x"]
	_, hasY := args["y"]
	if hasX || hasY {
		body["start"] = engine.Coordinate{X: request.GetInt("x", 1), Y: request.GetInt("y", 1)}
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleLoadRoute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := request.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]string{"description": description}
	if profile := request.GetString("profile", ""); profile != "" {
		body["profile"] = profile
	}

	var result service.LoadResult
	if err := c.apiCall(ctx, "POST", "/api/routes", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(formatSessionInfo(result.Session))
	fmt.Fprintf(&b, "Moves applied: %d\n", result.Moves)
	for _, s := range result.Skipped {
		fmt.Fprintf(&b, "Skipped line %d: %q\n", s.Line, s.Token)
	}
	if result.Route != nil {
		b.WriteString("\n")
		b.WriteString(formatRouteView(result.Route))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(resp.Sessions) == 0 {
		return mcp.NewToolResultText("No active sessions"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions (%d):\n", len(resp.Sessions))
	for _, s := range resp.Sessions {
		fmt.Fprintf(&b, "- %s: profile=%s grid=%dx%d length=%d current=%s\n",
			s.ID, s.ProfileID, s.Rows, s.Cols, s.Length, s.Current)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := c.apiCall(ctx, "DELETE", sessionPath(sessionID, ""), nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Session %s deleted", sessionID)), nil
}

func (c *Client) handleGetRoute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var view service.RouteView
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/route"), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRouteView(&view)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction := request.GetString("direction", "")

	var result service.MoveResult
	body := map[string]string{"direction": direction}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	moves, err := request.RequireStringSlice("moves")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.BulkMoveResult
	body := map[string]interface{}{"moves": moves}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleRemoveCoordinate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path := sessionPath(sessionID, "/coordinates")
	if _, ok := request.GetArguments()["index"]; ok {
		index, err := request.RequireInt("index")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		path = fmt.Sprintf("%s/%d", path, index)
	}

	var result service.RemoveResult
	if err := c.apiCall(ctx, "DELETE", path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Removed %s at index %d\nCurrent: %s\nLength: %d\n",
		result.Removed, result.Index, result.Current, result.Length)), nil
}

func (c *Client) handleListProfiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var profiles []*service.ProfileInfo
	if err := c.apiCall(ctx, "GET", "/api/profiles", nil, &profiles); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(profiles) == 0 {
		return mcp.NewToolResultText("No profiles found; sessions use the built-in 12x12 grid"), nil
	}

	var b strings.Builder
	b.WriteString("Available profiles:\n")
	for _, p := range profiles {
		fmt.Fprintf(&b, "- %s: %dx%d", p.ProfileID, p.Rows, p.Cols)
		if p.Description != "" {
			fmt.Fprintf(&b, " (%s)", p.Description)
		}
		b.WriteString("\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleRouteInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `ROUTE PLOTTER

GRID
- Cells are addressed (x, y), both 1-based.
- x is the column: 1 is the leftmost column.
- y is the row: 1 is the bottom row.
- The default grid is 12 rows by 12 columns; profiles can change this.

MOVES
- N: y + 1 (up)
- S: y - 1 (down)
- E: x + 1 (right)
- W: x - 1 (left)
Tokens are case-sensitive. Anything else is skipped as an invalid direction.
A move that would leave the grid is rejected and the route stays as it was.

ROUTE DESCRIPTION FORMAT (load_route)
  line 1: start x
  line 2: start y
  line 3+: one move per line
Blank move lines are ignored. A move off the grid makes the whole load fail.

RENDERED GRID
Visited cells are marked (x by default). Row labels run down the left
side with the top row first; column labels run along the bottom.

REMOVING COORDINATES
remove_coordinate without an index removes the most recent coordinate.
Index 0 is the start and -1 is the last. A route always keeps at least
one coordinate.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	if info == nil {
		return ""
	}
	return fmt.Sprintf("Session: %s\nProfile: %s\nGrid: %d rows x %d cols\nStart: %s\nCurrent: %s\nLength: %d\n",
		info.ID, info.ProfileID, info.Rows, info.Cols, info.Start, info.Current, info.Length)
}

func formatRouteView(view *service.RouteView) string {
	var b strings.Builder

	b.WriteString(view.Grid)
	b.WriteString("\n\n")

	s := view.Summary
	fmt.Fprintf(&b, "Steps: %d, unique cells: %d, revisits: %d\n", s.Steps, s.UniqueCells, s.Revisits)
	fmt.Fprintf(&b, "Start %s -> current %s (distance %d)\n", s.Start, s.Current, s.Displacement)

	b.WriteString("Coordinates:\n")
	for i, c := range view.Coordinates {
		fmt.Fprintf(&b, "  %d: %s\n", i, c)
	}

	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder

	status := "OK"
	if !result.Success {
		status = "REJECTED"
	}
	fmt.Fprintf(&b, "%s [%s]: %s\n", status, result.Code, result.Message)
	fmt.Fprintf(&b, "Current: %s (route length %d)\n", result.Current, result.Length)
	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(result.PossibleMoves, ", "))
	}

	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session %s: executed %d of %d moves\n", sessionID, result.MovesExecuted, result.RequestedMoves)
	fmt.Fprintf(&b, "Start: %s -> End: %s\n", result.StartPos, result.EndPos)

	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to the first %d moves\n", result.Limit)
	}
	for _, s := range result.Skipped {
		fmt.Fprintf(&b, "Skipped move %d: %q\n", s.Move, s.Token)
	}
	if !result.Success {
		fmt.Fprintf(&b, "Stopped on move %d (%s): %s\n", result.StoppedOnMove, result.StopReasonCode, result.StoppedReason)
	}
	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(result.PossibleMoves, ", "))
	}

	return b.String()
}
