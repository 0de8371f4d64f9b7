package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mcp-training/leaderchess/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Lifecycle
	StartGame(ctx context.Context, sessionID string) (*ActionResult, error)
	Restart(ctx context.Context, sessionID string) (*ActionResult, error)
	StartNewMatch(ctx context.Context, sessionID string) (*ActionResult, error)
	GoBackToHome(ctx context.Context, sessionID string) (*ActionResult, error)
	ApplyDimensions(ctx context.Context, sessionID, rows, cols string) (*engine.GameState, error)

	// Selection and movement
	SelectPiece(ctx context.Context, sessionID string, pos *engine.Position) (*ActionResult, error)
	AutoSelect(ctx context.Context, sessionID string) (*ActionResult, error)
	LegalMoves(ctx context.Context, sessionID string, pos engine.Position) ([]engine.Position, error)
	Move(ctx context.Context, sessionID string, from, to engine.Position) (*MoveResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles board preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// StateListener is told about state changes the caller did not trigger,
// such as last-move markers being cleared after the highlight duration.
type StateListener interface {
	OnStateChange(sessionID string, state *engine.GameState)
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
