package service

import (
	"time"

	"github.com/wricardo/mcp-training/leaderchess/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// ActionResult is returned by lifecycle and selection operations.
// Accepted is false when the engine ignored the call in the current phase.
type ActionResult struct {
	Accepted  bool              `json:"accepted"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool               `json:"success"`
	GameState *engine.GameState  `json:"game_state"`
	Message   string             `json:"message"`
	Record    *engine.MoveRecord `json:"record,omitempty"`
	Events    []GameEvent        `json:"events,omitempty"`
}

// Event types reported in GameEvent.Type
const (
	EventStart     = "start"
	EventRestart   = "restart"
	EventNewMatch  = "new_match"
	EventHome      = "home"
	EventSelect    = "select"
	EventMove      = "move"
	EventCapture   = "capture"
	EventVictory   = "victory"
	EventResize    = "resize"
	EventHighlight = "highlights_cleared"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string           `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Position  *engine.Position `json:"position,omitempty"`
}

// ConfigInfo provides information about a board preset
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	HighlightMS int    `json:"highlight_ms"`
}
