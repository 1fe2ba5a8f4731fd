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
	"github.com/wricardo/mars-rover-game/game/engine"
	"github.com/wricardo/mars-rover-game/game/service"
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
		baseURL: strings.TrimSuffix(baseURL, "/"),
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
		"Mars Rover Alien Hunt",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Mars Rover Alien Hunt - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Pilot the rover across a square grid of Martian terrain and drive onto the
hidden alien's cell before the countdown runs out. The alien is invisible
until found.

AVAILABLE TOOLS:
- create_session: Create new game session
- start_game: Start the countdown (required before piloting)
- pilot: One command (l, r, f, b) - requires intent explanation
- bulk_pilot: Up to 50 commands at once - requires intent explanation
- game_state: Current grid, rover, timer and dialog
- close_dialog: Dismiss an advisory dialog (commands are blocked while one is open)
- reset_game: Send the rover back to base and hide the alien elsewhere
- toggle_audio: Toggle background music
- set_viewport: Report the display size and orientation
- move_history: View past commands
- get_session / list_sessions / list_configs
- game_instructions: Rules and strategy

NOTE: The 'intent' parameter on pilot/bulk_pilot serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
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
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config to use (see list_configs, optional)",
				},
				"viewport_width": map[string]interface{}{
					"type":        "integer",
					"description": "Display width in pixels; small displays get the small grid (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state with an ASCII grid",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start the hunt: the rover returns to base, the alien is hidden and the countdown begins",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"viewport_width": map[string]interface{}{
					"type":        "integer",
					"description": "Display width used to size the grid (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "pilot",
		Description: "Send one command to the rover: l (turn left), r (turn right), f (forward), b (backward)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"command": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"l", "r", "f", "b"},
					"description": "Command to execute",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this command (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "command"},
		},
	}, c.handlePilot)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_pilot",
		Description: "Execute up to 50 commands in sequence, stopping at the first rejected command or when the alien is found",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"commands": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"l", "r", "f", "b"},
					},
					"description": "Array of commands",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "commands"},
		},
	}, c.handleBulkPilot)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Return the rover to base facing north and hide the alien somewhere else",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "close_dialog",
		Description: "Dismiss the open dialog so the countdown resumes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleCloseDialog)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "toggle_audio",
		Description: "Toggle the background music",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleToggleAudio)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_viewport",
		Description: "Report the display width and orientation. Narrow landscape displays lock the game until rotated",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"width": map[string]interface{}{
					"type":        "integer",
					"description": "Display width in pixels",
				},
				"landscape": map[string]interface{}{
					"type":        "boolean",
					"description": "Whether the display is in landscape orientation",
				},
			},
			Required: []string{"session_id", "width"},
		},
	}, c.handleSetViewport)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get command history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

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
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"].(string); ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}
	return args
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

// intArg reads a JSON number argument.
func intArg(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if configID, _ := args["config_id"].(string); configID != "" {
		body["config_id"] = configID
	}
	if width, ok := intArg(args, "viewport_width"); ok {
		body["viewport_width"] = width
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nUse start_game to begin the countdown.\n", info.ID, info.ConfigName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "not started"
		if s.GameState != nil {
			status = gameStatus(s.GameState)
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s, %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"), status)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	body := map[string]interface{}{}
	if width, ok := intArg(args, "viewport_width"); ok {
		body["viewport_width"] = width
	}
	return c.command(ctx, path, body)
}

func (c *Client) handlePilot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/pilot")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	command, _ := args["command"].(string)

	// The intent only exists to make the caller explain itself
	_, _ = args["intent"].(string)

	return c.command(ctx, path, map[string]string{"command": command})
}

func (c *Client) handleBulkPilot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/bulk-pilot")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, _ := args["commands"].([]interface{})
	commands := make([]string, 0, len(raw))
	for _, v := range raw {
		if cmd, ok := v.(string); ok {
			commands = append(commands, cmd)
		}
	}

	var result service.BulkCommandResult
	if err := c.apiCall(ctx, "POST", path, map[string]interface{}{"commands": commands}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/reset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return c.command(ctx, path, nil)
}

func (c *Client) handleCloseDialog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/dialog/close")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return c.command(ctx, path, nil)
}

func (c *Client) handleToggleAudio(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/audio/toggle")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return c.command(ctx, path, nil)
}

func (c *Client) handleSetViewport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/viewport")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	width, _ := intArg(args, "width")
	landscape, _ := args["landscape"].(bool)
	return c.command(ctx, path, map[string]interface{}{"width": width, "landscape": landscape})
}

// command posts a single player command and formats its result.
func (c *Client) command(ctx context.Context, path string, body interface{}) (*mcp.CallToolResult, error) {
	var result service.CommandResult
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatCommandResult(&result)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Grid: %dx%d (%dx%d at <= %dpx), Timer: %s\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description,
			cfg.LargeGrid, cfg.LargeGrid, cfg.SmallGrid, cfg.SmallGrid, cfg.Breakpoint, cfg.Timer)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Mars Rover Alien Hunt - Complete Instructions

GAME OBJECTIVE:
An alien is hiding on one cell of a square Martian grid. Drive the rover onto
that cell before the countdown reaches zero.

THE GRID:
• Rows are numbered from the top (row 0) to the bottom, columns from the left.
• The rover starts at base: the top-left cell (row 0, column 0), facing N.
  Facing N, forward moves toward row 0, so the first forward move is refused;
  turn right (E) or use b to head south.
• The grid is 10x10 by default and 8x8 on narrow displays (<= 485px).
• The alien is never hidden on the base cell and stays invisible until found.

GRID LEGEND:
• N E S W - The rover, drawn as the direction it faces
• A - The alien (only after it has been found)
• . - Unexplored terrain

MOVEMENT COMMANDS:
• l - Turn left (N→W→S→E→N), the rover stays on its cell
• r - Turn right (N→E→S→W→N)
• f - Move one cell in the facing direction
• b - Move one cell against the facing direction
Moves that would leave the grid are refused and the rover does not move.

FLOW:
1. create_session
2. start_game - starts the countdown (30 seconds by default)
3. pilot / bulk_pilot until the alien is found
4. start_game again to play another round

DIALOGS:
• Refused commands open an advisory dialog. While any dialog is open the
  countdown is paused and pilot/reset commands are refused with dialog_open.
• Use close_dialog to dismiss it and resume the countdown.
• Victory and game-over dialogs end the round.
• A narrow landscape display (width <= 1000px) shows a locked orientation
  dialog until the display is rotated (set_viewport with landscape=false).

VICTORY CONDITIONS:
- The rover's cell equals the alien's cell. The countdown stops immediately.

GAME OVER CONDITIONS:
- The countdown reaches zero before the alien is found. The rover returns to
  base and the alien is hidden again.

STRATEGY:
• The alien could be anywhere, so sweep the grid row by row (a serpentine).
• Use bulk_pilot: every call saves a round trip while the clock is running.
• Turning costs a command but never moves the rover; plan sweeps so that
  turns happen at the edges.
• bulk_pilot stops as soon as the alien is found, so you can queue a whole row.

REASON CODES:
not_started, already_started, out_of_bounds, dialog_open, dialog_locked,
no_dialog, invalid_command, game_ended, victory

Good luck finding the alien!`

// Formatting helpers

func gameStatus(state *engine.GameState) string {
	switch {
	case state.AlienFound:
		return "alien found"
	case state.GameOver:
		return "game over"
	case state.Started:
		return fmt.Sprintf("running, %s left", formatRemaining(state.RemainingMs))
	default:
		return "not started"
	}
}

func formatRemaining(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).Round(100 * time.Millisecond).String()
}

func formatSessionInfo(info *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nLast Accessed: %s\n\n",
		info.ID, info.ConfigName,
		info.CreatedAt.Format(time.RFC3339), info.LastAccessedAt.Format(time.RFC3339))
	if info.GameState != nil {
		result += formatGameState(info.GameState)
	}
	return result
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Config: %s | Grid: %dx%d | Status: %s\n", state.ConfigName, state.GridSize, state.GridSize, gameStatus(state))
	fmt.Fprintf(&b, "Rover: row %d, column %d, facing %s | Commands so far: %d\n",
		state.Rover.Row, state.Rover.Column, state.Rover.Heading, state.TotalMoves)
	if state.TimerPaused {
		b.WriteString("Countdown paused (close the dialog to resume)\n")
	}
	b.WriteString("\n")
	b.WriteString(engine.RenderText(state))
	return b.String()
}

func formatCommandResult(result *service.CommandResult) string {
	var b strings.Builder
	if result.Accepted {
		fmt.Fprintf(&b, "✅ %s accepted", result.Command)
	} else {
		fmt.Fprintf(&b, "❌ %s refused", result.Command)
		if result.Reason != "" {
			fmt.Fprintf(&b, " (%s)", result.Reason)
		}
	}
	fmt.Fprintf(&b, ": %s\n", result.Message)
	if result.From != result.To {
		fmt.Fprintf(&b, "Rover: (%d,%d,%s) -> (%d,%d,%s)\n",
			result.From.Row, result.From.Column, result.From.Heading,
			result.To.Row, result.To.Column, result.To.Heading)
	}
	if result.Won {
		b.WriteString("🎉 ALIEN FOUND!\n")
	}
	if result.GameState != nil {
		b.WriteString("\n")
		b.WriteString(formatGameState(result.GameState))
	}
	return b.String()
}

func formatBulkResult(result *service.BulkCommandResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Executed %d/%d commands", result.CommandsExecuted, result.RequestedCommands)
	if result.Truncated {
		fmt.Fprintf(&b, " (truncated to %d)", result.Limit)
	}
	b.WriteString("\n")
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on command %d: %s [%s]\n", result.StoppedOnCommand, result.StoppedReason, result.StopReasonCode)
	}
	fmt.Fprintf(&b, "Rover: (%d,%d,%s) -> (%d,%d,%s)\n",
		result.StartRover.Row, result.StartRover.Column, result.StartRover.Heading,
		result.EndRover.Row, result.EndRover.Column, result.EndRover.Heading)

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, step := range result.Steps {
			mark := "ok"
			if !step.Accepted {
				mark = "refused"
			}
			if step.Won {
				mark = "ALIEN"
			}
			fmt.Fprintf(&b, "  %2d. %-8s (%d,%d)->(%d,%d) %s %s\n",
				step.Idx, step.Command, step.From.Row, step.From.Column,
				step.To.Row, step.To.Column, step.To.Heading, mark)
		}
	}

	if result.Won {
		b.WriteString("\n🎉 ALIEN FOUND!\n")
	} else if result.GameOver {
		b.WriteString("\n💀 GAME OVER\n")
	}
	if result.GameState != nil {
		b.WriteString("\n")
		b.WriteString(formatGameState(result.GameState))
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Command History (Page %d/%d, Total: %d)\n\n", history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✅"
		if !move.Success {
			status = "❌"
		}
		fmt.Fprintf(&b, "%s #%d %s: (%d,%d,%s) -> (%d,%d,%s)\n",
			status, move.MoveNumber, move.Action,
			move.From.Row, move.From.Column, move.From.Heading,
			move.To.Row, move.To.Column, move.To.Heading)
	}

	if history.HasNext {
		fmt.Fprintf(&b, "\nMore history available (page %d)\n", history.Page+1)
	}
	return b.String()
}
