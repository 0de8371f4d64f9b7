package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/leaderchess/game/engine"
	"github.com/wricardo/mcp-training/leaderchess/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	mu       sync.Mutex
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errors.New("session not found")
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
	saved   map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	defaultConfig := &engine.GameConfig{
		Name:        "test",
		Description: "Test configuration",
		Rows:        8,
		Cols:        8,
		HighlightMS: 20,
	}
	compact := &engine.GameConfig{
		Name:        "compact",
		Description: "Small board",
		Rows:        6,
		Cols:        6,
	}

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"test":    defaultConfig,
			"compact": compact,
		},
		saved: make(map[string]*engine.GameConfig),
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, service.ErrConfigNotFound
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    name + ".json",
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			Rows:        config.Rows,
			Cols:        config.Cols,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["test"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	m.saved[name] = config
	return nil
}

// recordingListener collects deferred state changes
type recordingListener struct {
	changes chan *engine.GameState
}

func newRecordingListener() *recordingListener {
	return &recordingListener{changes: make(chan *engine.GameState, 16)}
}

func (l *recordingListener) OnStateChange(sessionID string, state *engine.GameState) {
	l.changes <- state
}

func newTestService(opts ...service.Option) (service.GameService, *MockSessionManager) {
	sessions := NewMockSessionManager()
	return service.NewGameService(sessions, NewMockConfigManager(), opts...), sessions
}

func startedSession(t *testing.T, svc service.GameService) string {
	t.Helper()
	ctx := context.Background()
	info, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	res, err := svc.StartGame(ctx, info.ID)
	if err != nil || !res.Accepted {
		t.Fatalf("Failed to start game: %v %+v", err, res)
	}
	return info.ID
}

// Test cases
func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	tests := []struct {
		name       string
		configName string
		wantRows   int
		wantErr    bool
	}{
		{
			name:       "create with default config",
			configName: "",
			wantRows:   8,
		},
		{
			name:       "create with specific config",
			configName: "compact",
			wantRows:   6,
		},
		{
			name:       "create with invalid config",
			configName: "nonexistent",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.configName)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateSession() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, service.ErrConfigNotFound) {
					t.Errorf("Expected ErrConfigNotFound, got %v", err)
				}
				return
			}
			if session.GameState.Rows != tt.wantRows {
				t.Errorf("Expected %d rows, got %d", tt.wantRows, session.GameState.Rows)
			}
			if session.GameState.Phase != engine.PhaseNotStarted {
				t.Errorf("Expected new session on the menu, got %s", session.GameState.Phase)
			}
		})
	}
}

func TestGameService_SessionNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	checks := map[string]func() error{
		"GetSession": func() error { _, err := svc.GetSession(ctx, "missing"); return err },
		"StartGame":  func() error { _, err := svc.StartGame(ctx, "missing"); return err },
		"Move": func() error {
			_, err := svc.Move(ctx, "missing", engine.Position{}, engine.Position{})
			return err
		},
		"LegalMoves":    func() error { _, err := svc.LegalMoves(ctx, "missing", engine.Position{}); return err },
		"GetGameState":  func() error { _, err := svc.GetGameState(ctx, "missing"); return err },
		"DeleteSession": func() error { return svc.DeleteSession(ctx, "missing") },
		"Dimensions":    func() error { _, err := svc.ApplyDimensions(ctx, "missing", "8", "8"); return err },
	}

	for name, call := range checks {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, service.ErrSessionNotFound) {
				t.Errorf("Expected ErrSessionNotFound, got %v", err)
			}
		})
	}
}

func TestGameService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	info, _ := svc.CreateSession(ctx, "test")

	res, err := svc.Restart(ctx, info.ID)
	if err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if res.Accepted || len(res.Events) != 0 {
		t.Errorf("Expected Restart ignored on the menu, got %+v", res)
	}

	res, _ = svc.StartGame(ctx, info.ID)
	if !res.Accepted || res.GameState.Phase != engine.PhaseInProgress {
		t.Fatalf("Expected game started, got %+v", res)
	}
	if len(res.Events) != 1 || res.Events[0].Type != service.EventStart {
		t.Errorf("Expected start event, got %+v", res.Events)
	}

	res, _ = svc.GoBackToHome(ctx, info.ID)
	if !res.Accepted || res.GameState.Phase != engine.PhaseNotStarted {
		t.Errorf("Expected back on the menu, got %+v", res)
	}

	res, _ = svc.StartNewMatch(ctx, info.ID)
	if res.Accepted {
		t.Error("Expected StartNewMatch ignored without a winner")
	}
}

func TestGameService_SelectAndLegalMoves(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	id := startedSession(t, svc)

	moves, err := svc.LegalMoves(ctx, id, engine.Position{Row: 7, Col: 2})
	if err != nil {
		t.Fatalf("LegalMoves failed: %v", err)
	}
	if len(moves) != 4 {
		t.Errorf("Expected 4 leaper moves, got %v", moves)
	}

	res, err := svc.SelectPiece(ctx, id, &engine.Position{Row: 7, Col: 2})
	if err != nil {
		t.Fatalf("SelectPiece failed: %v", err)
	}
	if !res.Accepted || len(res.GameState.LegalDestinations) != 4 {
		t.Errorf("Expected selection with 4 destinations, got %+v", res)
	}
	if len(res.Events) != 1 || res.Events[0].Position == nil {
		t.Errorf("Expected select event with position, got %+v", res.Events)
	}

	res, _ = svc.SelectPiece(ctx, id, &engine.Position{Row: 20, Col: 0})
	if res.Accepted {
		t.Error("Expected off-board selection rejected")
	}

	res, _ = svc.SelectPiece(ctx, id, nil)
	if !res.Accepted || res.GameState.Selected != nil {
		t.Errorf("Expected selection cleared, got %+v", res.GameState.Selected)
	}

	res, _ = svc.AutoSelect(ctx, id)
	if !res.Accepted || res.GameState.Selected == nil || *res.GameState.Selected != (engine.Position{Row: 7, Col: 0}) {
		t.Errorf("Expected auto-select of the white leader, got %+v", res.GameState.Selected)
	}
}

func TestGameService_Move(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	id := startedSession(t, svc)

	result, err := svc.Move(ctx, id, engine.Position{Row: 7, Col: 1}, engine.Position{Row: 4, Col: 1})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if !result.Success || result.Record == nil || result.Record.MoveNumber != 1 {
		t.Errorf("Expected successful move record, got %+v", result)
	}
	if result.GameState.Turn != engine.Second {
		t.Errorf("Expected black to move, got %s", result.GameState.Turn)
	}
	if len(result.Events) != 1 || result.Events[0].Type != service.EventMove {
		t.Errorf("Expected single move event, got %+v", result.Events)
	}
	if result.Events[0].Message != "white runner B1 -> B4" {
		t.Errorf("Unexpected move event message '%s'", result.Events[0].Message)
	}

	// Illegal: white again
	_, err = svc.Move(ctx, id, engine.Position{Row: 4, Col: 1}, engine.Position{Row: 3, Col: 1})
	if !errors.Is(err, engine.ErrIllegalMove) {
		t.Errorf("Expected ErrIllegalMove, got %v", err)
	}
}

func TestGameService_MoveBeforeStart(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	info, _ := svc.CreateSession(ctx, "test")

	result, err := svc.Move(ctx, info.ID, engine.Position{Row: 7, Col: 1}, engine.Position{Row: 6, Col: 1})
	if err != nil {
		t.Fatalf("Expected ignored move without error, got %v", err)
	}
	if result.Success || result.Record != nil {
		t.Errorf("Expected move ignored, got %+v", result)
	}
	if result.GameState.MoveCount != 0 {
		t.Error("Expected board untouched")
	}
}

func TestGameService_Victory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	id := startedSession(t, svc)

	moves := [][2]engine.Position{
		{{Row: 7, Col: 1}, {Row: 4, Col: 4}},
		{{Row: 0, Col: 6}, {Row: 3, Col: 6}},
		{{Row: 4, Col: 4}, {Row: 3, Col: 4}},
		{{Row: 0, Col: 5}, {Row: 1, Col: 3}},
	}
	for _, m := range moves {
		if _, err := svc.Move(ctx, id, m[0], m[1]); err != nil {
			t.Fatalf("Move %v failed: %v", m, err)
		}
	}

	result, err := svc.Move(ctx, id, engine.Position{Row: 3, Col: 4}, engine.Position{Row: 0, Col: 7})
	if err != nil {
		t.Fatalf("Winning move failed: %v", err)
	}

	types := []string{}
	for _, ev := range result.Events {
		types = append(types, ev.Type)
	}
	want := []string{service.EventMove, service.EventCapture, service.EventVictory}
	if fmt.Sprint(types) != fmt.Sprint(want) {
		t.Errorf("Expected events %v, got %v", want, types)
	}
	if result.GameState.Phase != engine.PhaseConcluded {
		t.Errorf("Expected concluded game, got %s", result.GameState.Phase)
	}

	res, _ := svc.StartNewMatch(ctx, id)
	if !res.Accepted || res.GameState.Winner != nil {
		t.Errorf("Expected a fresh match, got %+v", res)
	}
}

func TestGameService_HighlightClear(t *testing.T) {
	ctx := context.Background()
	listener := newRecordingListener()
	svc, _ := newTestService(service.WithStateListener(listener))
	id := startedSession(t, svc)

	result, err := svc.Move(ctx, id, engine.Position{Row: 7, Col: 1}, engine.Position{Row: 6, Col: 1})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if n := len(result.GameState.Board.HighlightedCells()); n != 2 {
		t.Fatalf("Expected 2 highlighted cells right after the move, got %d", n)
	}

	select {
	case state := <-listener.changes:
		if n := len(state.Board.HighlightedCells()); n != 0 {
			t.Errorf("Expected highlights cleared, %d left", n)
		}
		if state.LastMove != nil {
			t.Error("Expected last move cleared")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a deferred highlight clear")
	}

	state, _ := svc.GetGameState(ctx, id)
	if len(state.Board.HighlightedCells()) != 0 {
		t.Error("Expected stored state without highlights")
	}
}

func TestGameService_NewerMoveReplacesClear(t *testing.T) {
	ctx := context.Background()
	listener := newRecordingListener()
	svc, _ := newTestService(
		service.WithStateListener(listener),
		service.WithHighlightDuration(80*time.Millisecond),
	)
	id := startedSession(t, svc)

	svc.Move(ctx, id, engine.Position{Row: 7, Col: 1}, engine.Position{Row: 6, Col: 1})
	time.Sleep(30 * time.Millisecond)
	svc.Move(ctx, id, engine.Position{Row: 0, Col: 6}, engine.Position{Row: 1, Col: 6})

	select {
	case state := <-listener.changes:
		if state.MoveCount != 2 {
			t.Errorf("Expected the clear for move 2, got move count %d", state.MoveCount)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a deferred highlight clear")
	}

	select {
	case <-listener.changes:
		t.Error("Expected exactly one clear")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestGameService_HomeKeepsPendingClear(t *testing.T) {
	ctx := context.Background()
	listener := newRecordingListener()
	svc, _ := newTestService(
		service.WithStateListener(listener),
		service.WithHighlightDuration(50*time.Millisecond),
	)
	id := startedSession(t, svc)

	svc.Move(ctx, id, engine.Position{Row: 7, Col: 1}, engine.Position{Row: 6, Col: 1})
	res, err := svc.GoBackToHome(ctx, id)
	if err != nil || !res.Accepted {
		t.Fatalf("GoBackToHome failed: %v %+v", err, res)
	}
	if n := len(res.GameState.Board.HighlightedCells()); n != 2 {
		t.Fatalf("Expected the board kept with 2 highlighted cells, got %d", n)
	}

	select {
	case state := <-listener.changes:
		if state.Phase != engine.PhaseNotStarted {
			t.Errorf("Expected not_started after home, got %s", state.Phase)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected the deferred clear to run after going home")
	}

	state, _ := svc.GetGameState(ctx, id)
	if n := len(state.Board.HighlightedCells()); n != 0 {
		t.Errorf("Expected highlights cleared at the menu, %d left", n)
	}
	if state.LastMove != nil {
		t.Error("Expected last move cleared at the menu")
	}
}

func TestGameService_DeleteCancelsClear(t *testing.T) {
	ctx := context.Background()
	listener := newRecordingListener()
	svc, sessions := newTestService(
		service.WithStateListener(listener),
		service.WithHighlightDuration(30*time.Millisecond),
	)
	id := startedSession(t, svc)

	svc.Move(ctx, id, engine.Position{Row: 7, Col: 1}, engine.Position{Row: 6, Col: 1})
	if err := svc.DeleteSession(ctx, id); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if len(sessions.List()) != 0 {
		t.Error("Expected session removed")
	}

	select {
	case <-listener.changes:
		t.Error("Expected no clear for a deleted session")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestGameService_ApplyDimensions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	info, _ := svc.CreateSession(ctx, "test")

	state, err := svc.ApplyDimensions(ctx, info.ID, "12", "12")
	if err != nil {
		t.Fatalf("ApplyDimensions failed: %v", err)
	}
	if state.Rows != 12 || state.Cols != 12 {
		t.Errorf("Expected 12x12, got %dx%d", state.Rows, state.Cols)
	}

	for _, in := range [][2]string{{"5", "8"}, {"13", "6"}, {"abc", "8"}} {
		_, err := svc.ApplyDimensions(ctx, info.ID, in[0], in[1])
		if !errors.Is(err, engine.ErrInvalidDimensions) {
			t.Errorf("ApplyDimensions(%q, %q): expected ErrInvalidDimensions, got %v", in[0], in[1], err)
		}
	}

	current, _ := svc.GetGameState(ctx, info.ID)
	if current.Rows != 12 || current.Cols != 12 {
		t.Errorf("Expected rejected sizes to leave 12x12, got %dx%d", current.Rows, current.Cols)
	}

	svc.StartGame(ctx, info.ID)
	if _, err := svc.ApplyDimensions(ctx, info.ID, "8", "8"); !errors.Is(err, engine.ErrGameInProgress) {
		t.Errorf("Expected ErrGameInProgress, got %v", err)
	}
}

func TestGameService_ListSessions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateSession(ctx, "test"); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("Expected 3 sessions, got %d", len(sessions))
	}
	for _, s := range sessions {
		if s.ConfigName != "test" {
			t.Errorf("Expected config_id 'test', got '%s'", s.ConfigName)
		}
	}
}

func TestGameService_Configs(t *testing.T) {
	ctx := context.Background()
	sessions := NewMockSessionManager()
	configs := NewMockConfigManager()
	svc := service.NewGameService(sessions, configs)

	list, err := svc.ListConfigs(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("Expected 2 configs, got %d (%v)", len(list), err)
	}

	cfg, err := svc.LoadConfig(ctx, "compact")
	if err != nil || cfg.Rows != 6 {
		t.Errorf("Expected compact preset, got %+v (%v)", cfg, err)
	}

	custom := &engine.GameConfig{Name: "custom", Description: "Custom", Rows: 10, Cols: 7}
	if err := svc.SaveConfig(ctx, "custom", custom); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	if configs.saved["custom"] != custom {
		t.Error("Expected config handed to the config manager")
	}
}

func TestGameService_SnapshotsAreIndependent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	id := startedSession(t, svc)

	before, _ := svc.GetGameState(ctx, id)
	svc.Move(ctx, id, engine.Position{Row: 7, Col: 1}, engine.Position{Row: 6, Col: 1})

	if before.Board.At(engine.Position{Row: 7, Col: 1}) == nil {
		t.Error("Expected earlier snapshot unaffected by later moves")
	}
}
