package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/leaderchess/game/engine"
	"github.com/wricardo/mcp-training/leaderchess/game/highlight"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions  SessionManager
	configs   ConfigManager
	scheduler *highlight.Scheduler
	listener  StateListener

	// highlightOverride replaces every preset's highlight duration when > 0
	highlightOverride time.Duration

	mu sync.RWMutex
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithStateListener registers the listener told about deferred highlight clears
func WithStateListener(l StateListener) Option {
	return func(s *gameServiceImpl) {
		s.listener = l
	}
}

// WithScheduler shares a highlight scheduler owned by the caller
func WithScheduler(sched *highlight.Scheduler) Option {
	return func(s *gameServiceImpl) {
		s.scheduler = sched
	}
}

// WithHighlightDuration overrides how long last-move markers stay visible
func WithHighlightDuration(d time.Duration) Option {
	return func(s *gameServiceImpl) {
		s.highlightOverride = d
	}
}

// StateListenerFunc adapts a plain function to StateListener
type StateListenerFunc func(sessionID string, state *engine.GameState)

// OnStateChange calls f
func (f StateListenerFunc) OnStateChange(sessionID string, state *engine.GameState) {
	f(sessionID, state)
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scheduler == nil {
		s.scheduler = highlight.NewScheduler()
	}
	return s
}

// getSession looks a session up and marks it accessed
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID, // Return the config_id, not the display name
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.Snapshot(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate the ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.sessionInfo(sess, configName), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session and drops its pending highlight clear
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err := s.sessions.Delete(sess.ID); err != nil {
		return err
	}
	s.scheduler.Cancel(sess.ID)
	return nil
}

// StartGame leaves the pre-game menu
func (s *gameServiceImpl) StartGame(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.lifecycle(sessionID, EventStart, (*engine.GameEngine).Start)
}

// Restart reinitializes a game in progress
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.lifecycle(sessionID, EventRestart, (*engine.GameEngine).Restart)
}

// StartNewMatch begins a fresh game once a winner exists
func (s *gameServiceImpl) StartNewMatch(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.lifecycle(sessionID, EventNewMatch, (*engine.GameEngine).StartNewMatch)
}

// GoBackToHome returns to the pre-game menu keeping the board
func (s *gameServiceImpl) GoBackToHome(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.lifecycle(sessionID, EventHome, (*engine.GameEngine).GoBackToHome)
}

func (s *gameServiceImpl) lifecycle(sessionID, eventType string, op func(*engine.GameEngine) bool) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	accepted := op(sess.Engine)
	if accepted && eventType != EventHome {
		// The board was replaced; an older clear has nothing to do.
		// Home keeps the board, so its pending clear still runs.
		s.scheduler.Cancel(sess.ID)
	}

	state := sess.Engine.Snapshot()
	result := &ActionResult{
		Accepted:  accepted,
		GameState: state,
		Message:   state.Message,
	}
	if accepted {
		result.Events = []GameEvent{{
			Type:      eventType,
			Message:   state.Message,
			Timestamp: time.Now(),
		}}
	} else {
		result.Message = fmt.Sprintf("%s ignored while game is %s", eventType, state.Phase)
	}
	return result, nil
}

// ApplyDimensions parses user-entered sizes and resizes the board before the game starts
func (s *gameServiceImpl) ApplyDimensions(ctx context.Context, sessionID, rows, cols string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	r, c, err := engine.ParseDimensions(rows, cols)
	if err != nil {
		return nil, err
	}
	if err := sess.Engine.ApplyDimensions(r, c); err != nil {
		return nil, err
	}
	s.scheduler.Cancel(sess.ID)

	return sess.Engine.Snapshot(), nil
}

// SelectPiece selects the square at pos, or clears the selection when pos is nil
func (s *gameServiceImpl) SelectPiece(ctx context.Context, sessionID string, pos *engine.Position) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	accepted := sess.Engine.SelectPiece(pos)
	state := sess.Engine.Snapshot()
	result := &ActionResult{
		Accepted:  accepted,
		GameState: state,
		Message:   state.Message,
	}

	switch {
	case !accepted && pos != nil && engine.InBounds(*pos, state.Rows, state.Cols):
		result.Message = fmt.Sprintf("selection ignored while game is %s", state.Phase)
	case !accepted && pos != nil:
		result.Message = fmt.Sprintf("%s is off the board", pos)
	case !accepted:
		result.Message = fmt.Sprintf("selection ignored while game is %s", state.Phase)
	case pos == nil:
		result.Events = []GameEvent{{Type: EventSelect, Message: "Selection cleared", Timestamp: time.Now()}}
	default:
		result.Events = []GameEvent{selectEvent(state, *pos)}
	}
	return result, nil
}

// AutoSelect picks the first piece of the side to move that has a legal move
func (s *gameServiceImpl) AutoSelect(ctx context.Context, sessionID string) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	pos, ok := sess.Engine.AutoSelect()
	state := sess.Engine.Snapshot()
	result := &ActionResult{
		Accepted:  ok,
		GameState: state,
		Message:   state.Message,
	}
	if ok {
		result.Events = []GameEvent{selectEvent(state, pos)}
	} else if state.Phase == engine.PhaseInProgress {
		result.Message = fmt.Sprintf("%s has no piece with a legal move", state.Turn.ColorName())
	} else {
		result.Message = fmt.Sprintf("auto-select ignored while game is %s", state.Phase)
	}
	return result, nil
}

func selectEvent(state *engine.GameState, pos engine.Position) GameEvent {
	p := pos
	what := "empty square"
	if piece := state.Board.At(pos); piece != nil {
		what = piece.String()
	}
	return GameEvent{
		Type:      EventSelect,
		Message:   fmt.Sprintf("Selected %s at %s (%d moves)", what, pos.Label(state.Rows), len(state.LegalDestinations)),
		Timestamp: time.Now(),
		Position:  &p,
	}
}

// LegalMoves returns the destinations reachable from pos on the session's board
func (s *gameServiceImpl) LegalMoves(ctx context.Context, sessionID string, pos engine.Position) ([]engine.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.LegalMovesFrom(pos), nil
}

// Move plays from -> to and schedules the removal of the last-move markers
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, from, to engine.Position) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	record, err := sess.Engine.Move(from, to)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.Snapshot()
	if record == nil {
		return &MoveResult{
			Success:   false,
			GameState: state,
			Message:   fmt.Sprintf("move ignored while game is %s", state.Phase),
		}, nil
	}

	s.scheduleClear(sess, record.MoveNumber)

	return &MoveResult{
		Success:   true,
		GameState: state,
		Message:   state.Message,
		Record:    record,
		Events:    moveEvents(record, state.Rows),
	}, nil
}

// moveEvents describes an applied move
func moveEvents(record *engine.MoveRecord, rows int) []GameEvent {
	now := time.Now()
	to := record.Move.To
	events := []GameEvent{{
		Type: EventMove,
		Message: fmt.Sprintf("%s %s -> %s", record.Piece,
			record.Move.From.Label(rows), to.Label(rows)),
		Timestamp: now,
		Position:  &to,
	}}

	if record.Captured != nil {
		events = append(events, GameEvent{
			Type:      EventCapture,
			Message:   fmt.Sprintf("Captured %s", record.Captured),
			Timestamp: now,
			Position:  &to,
		})
	}
	if record.Winner != nil {
		events = append(events, GameEvent{
			Type:      EventVictory,
			Message:   fmt.Sprintf("%s wins", record.Winner.ColorName()),
			Timestamp: now,
		})
	}
	return events
}

func (s *gameServiceImpl) highlightDuration(sess *Session) time.Duration {
	if s.highlightOverride > 0 {
		return s.highlightOverride
	}
	return sess.Config.HighlightDuration()
}

// scheduleClear replaces any pending clear for the session. Callers hold s.mu.
func (s *gameServiceImpl) scheduleClear(sess *Session, moveNumber int) {
	id := sess.ID
	s.scheduler.Schedule(id, s.highlightDuration(sess), func() {
		s.clearHighlights(id, moveNumber)
	})
}

// clearHighlights runs on the scheduler's goroutine
func (s *gameServiceImpl) clearHighlights(sessionID string, moveNumber int) {
	s.mu.Lock()
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		s.mu.Unlock()
		return
	}
	if !sess.Engine.ClearHighlightsFor(moveNumber) {
		s.mu.Unlock()
		return
	}
	state := sess.Engine.Snapshot()
	s.mu.Unlock()

	if s.listener != nil {
		s.listener.OnStateChange(sessionID, state)
	}
}

// GetGameState returns the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.Snapshot(), nil
}

// ListConfigs returns available board presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific board preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a board preset to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}
