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
	"github.com/wricardo/mcp-training/leaderchess/game/engine"
	"github.com/wricardo/mcp-training/leaderchess/game/render"
	"github.com/wricardo/mcp-training/leaderchess/game/service"
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
		baseURL: baseURL,
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
		"Leader Chess",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Leader Chess - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Capture the opposing Leader. White (upper case L R J on the board) moves first,
black is lower case. Squares are named like chess squares: column letter, then
rank counted from the bottom (A1 is the bottom-left corner).

TYPICAL FLOW:
create_session -> start_game -> legal_moves / auto_select -> move -> ...

AVAILABLE TOOLS:
- create_session, list_sessions, list_configs
- game_state: board, side to move and last move
- start_game, restart_game, new_match, go_home, set_dimensions
- select_piece, auto_select, legal_moves
- move: play from one square to another - requires intent explanation
- game_rules: full rules

NOTE: The 'intent' parameter on the move tool serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func squareProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"pattern":     "^[A-La-l](1[0-2]|[1-9])$",
		"description": description,
	}
}

// sessionTool declares a tool whose only argument is the session ID
func sessionTool(name, description string) mcp.Tool {
	return mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
			},
			Required: []string{"session_id"},
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session, optionally from a board preset (see list_configs)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use, e.g. classic, compact, grand, wide (optional)",
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
		Name:        "list_configs",
		Description: "List the available board presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	// Lifecycle
	c.mcpServer.AddTool(sessionTool("game_state", "Get the current board, side to move and last move"), c.handleGameState)
	c.mcpServer.AddTool(sessionTool("start_game", "Start the game; white moves first"), c.lifecycle("start"))
	c.mcpServer.AddTool(sessionTool("restart_game", "Reset the pieces on a running game, keeping the board size"), c.lifecycle("restart"))
	c.mcpServer.AddTool(sessionTool("new_match", "Start a fresh match after a game has been won"), c.lifecycle("new-match"))
	c.mcpServer.AddTool(sessionTool("go_home", "Leave the game and return to the start screen"), c.lifecycle("home"))
	c.mcpServer.AddTool(sessionTool("auto_select", "Select the first piece of the side to move that has a legal move"), c.lifecycle("auto-select"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_dimensions",
		Description: "Resize the board before the game starts (6 to 12 rows and columns)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"rows": map[string]interface{}{
					"type":        "integer",
					"minimum":     engine.MinBoardSize,
					"maximum":     engine.MaxBoardSize,
					"description": "Number of rows",
				},
				"cols": map[string]interface{}{
					"type":        "integer",
					"minimum":     engine.MinBoardSize,
					"maximum":     engine.MaxBoardSize,
					"description": "Number of columns",
				},
			},
			Required: []string{"session_id", "rows", "cols"},
		},
	}, c.handleSetDimensions)

	// Play
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_piece",
		Description: "Select the piece on a square and show where it can move; omit square to clear the selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"square":     squareProp("Square to select, e.g. B1"),
			},
			Required: []string{"session_id"},
		},
	}, c.handleSelectPiece)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "legal_moves",
		Description: "List the squares the piece on a square can move to",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"square":     squareProp("Square holding the piece, e.g. B1"),
			},
			Required: []string{"session_id", "square"},
		},
	}, c.handleLegalMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move a piece of the side to move from one square to another",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"from":       squareProp("Square of the piece to move, e.g. B1"),
				"to":         squareProp("Destination square, e.g. B4"),
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "from", "to"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get the complete rules of Leader Chess",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	endpoint := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
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
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
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
	return args
}

func stringArg(request mcp.CallToolRequest, key string) string {
	s, _ := arguments(request)[key].(string)
	return strings.TrimSpace(s)
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := stringArg(request, "config_id"); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	result += "\nCall start_game to begin."
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&sb, "- %s (Config: %s, Created: %s)", s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
		if s.GameState != nil {
			fmt.Fprintf(&sb, " %s", render.Summary(s.GameState))
		}
		sb.WriteByte('\n')
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall("GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString("Available Presets:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&sb, "• %s (config_id: %s)\n  %s\n  Board: %dx%d, last move shown for %dms\n\n",
			config.Name, config.ConfigID, config.Description, config.Rows, config.Cols, config.HighlightMS)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")

	var state engine.GameState
	if err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

// lifecycle proxies the body-less POST endpoint /api/sessions/{id}/{action}
func (c *Client) lifecycle(action string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID := stringArg(request, "session_id")

		var result service.ActionResult
		if err := c.apiCall("POST", sessionPath(sessionID, "/"+action), nil, &result); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(formatActionResult(&result)), nil
	}
}

func (c *Client) handleSetDimensions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID := stringArg(request, "session_id")

	// The API accepts numbers or numeric strings and reports anything else
	body := map[string]interface{}{
		"rows": args["rows"],
		"cols": args["cols"],
	}

	var state engine.GameState
	if err := c.apiCall("POST", sessionPath(sessionID, "/dimensions"), body, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Board resized to %dx%d\n\n%s", state.Rows, state.Cols, formatGameState(&state))), nil
}

func (c *Client) handleSelectPiece(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")

	body := map[string]interface{}{}
	if square := stringArg(request, "square"); square != "" {
		body["square"] = square
	}

	var result service.ActionResult
	if err := c.apiCall("POST", sessionPath(sessionID, "/select"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleLegalMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")
	square := stringArg(request, "square")
	if square == "" {
		return mcp.NewToolResultError("square is required"), nil
	}

	var response struct {
		Square  string   `json:"square"`
		Squares []string `json:"squares"`
	}
	path := sessionPath(sessionID, "/legal-moves?square="+url.QueryEscape(square))
	if err := c.apiCall("GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(response.Squares) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No legal moves from %s", response.Square)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Legal moves from %s (%d): %s",
		response.Square, len(response.Squares), strings.Join(response.Squares, ", "))), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := stringArg(request, "session_id")
	from := stringArg(request, "from")
	to := stringArg(request, "to")

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = stringArg(request, "intent")

	if from == "" || to == "" {
		return mcp.NewToolResultError("from and to squares are required"), nil
	}

	body := map[string]interface{}{
		"from_square": from,
		"to_square":   to,
	}

	var result service.MoveResult
	if err := c.apiCall("POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(rulesText), nil
}

const rulesText = `♔ Leader Chess - Complete Rules

GAME OBJECTIVE:
Capture the opposing Leader. The game ends the moment a Leader leaves the board.

BOARD:
• Between 6x6 and 12x12 squares, chosen before the game starts (set_dimensions)
• Squares are named by column letter and rank: A1 is the bottom-left corner
• White starts in the bottom-left corner: Leader A1, Runner B1, Leaper C1
• Black starts in the top-right corner: Leader, Runner and Leaper mirrored

BOARD LEGEND (game_state):
  L R J   white Leader, Runner, Leaper
  l r j   black Leader, Runner, Leaper
  .       empty square
  *       empty square touched by the last move

PIECES:
• Leader (L): one square in any of the 8 directions
• Runner (R): slides 1 to 3 squares in any of the 8 directions; cannot pass
  through pieces and stops on the first piece it meets when capturing
• Leaper (J): jumps in an L shape (2+1) like a knight, over any pieces

TURNS:
• White moves first, then the sides alternate
• A piece may move to an empty square or capture an opposing piece
• You can never land on your own piece

GAME FLOW:
1. create_session (optionally with a preset from list_configs)
2. set_dimensions if you want a different board size
3. start_game
4. legal_moves / select_piece / auto_select to inspect options
5. move with from and to squares
6. After a victory: new_match to play again, or go_home

VICTORY CONDITIONS:
• Capture the opposing Leader
• Moves are refused once the game is won

Good luck, and guard your Leader!`

// Formatting helpers

// formatGameState describes a state for an agent: summary line, board and selection
func formatGameState(state *engine.GameState) string {
	var sb strings.Builder

	sb.WriteString(render.Summary(state))
	sb.WriteString("\n\n")
	sb.WriteString(render.ASCII(state.Board))

	if state.LastMove != nil {
		fmt.Fprintf(&sb, "\nLast move: %s -> %s",
			state.LastMove.From.Label(state.Rows), state.LastMove.To.Label(state.Rows))
		if state.LastCapture != nil {
			fmt.Fprintf(&sb, " (captured %s)", state.LastCapture)
		}
		sb.WriteByte('\n')
	}

	if state.Selected != nil {
		dests := make([]string, len(state.LegalDestinations))
		for i, d := range state.LegalDestinations {
			dests[i] = d.Label(state.Rows)
		}
		fmt.Fprintf(&sb, "\nSelected: %s, can move to: %s\n",
			state.Selected.Label(state.Rows), orNone(strings.Join(dests, ", ")))
	}

	switch state.Phase {
	case engine.PhaseConcluded:
		if state.Winner != nil {
			fmt.Fprintf(&sb, "\n🏆 VICTORY! %s wins\n", state.Winner.ColorName())
		}
	case engine.PhaseNotStarted:
		sb.WriteString("\nGame not started. Call start_game.\n")
	}

	return sb.String()
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func formatEvents(sb *strings.Builder, events []service.GameEvent) {
	for _, e := range events {
		fmt.Fprintf(sb, "• %s\n", e.Message)
	}
}

func formatActionResult(result *service.ActionResult) string {
	var sb strings.Builder

	if result.Accepted {
		sb.WriteString("✓ ")
	} else {
		sb.WriteString("✗ ")
	}
	sb.WriteString(result.Message)
	sb.WriteByte('\n')
	formatEvents(&sb, result.Events)

	if result.GameState != nil {
		sb.WriteByte('\n')
		sb.WriteString(formatGameState(result.GameState))
	}
	return sb.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var sb strings.Builder

	if result.Success {
		sb.WriteString("✓ Move successful\n")
	} else {
		fmt.Fprintf(&sb, "✗ Move failed: %s\n", result.Message)
	}
	formatEvents(&sb, result.Events)

	if result.GameState != nil {
		sb.WriteByte('\n')
		sb.WriteString(formatGameState(result.GameState))
	}
	return sb.String()
}
