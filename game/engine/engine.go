package engine

import "fmt"

// Engine provides the main interface for game session operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Snapshot() *GameState
	SetState(state *GameState) error
	Phase() Phase
	Dimensions() (rows, cols int)

	// Lifecycle
	Start() bool
	Restart() bool
	StartNewMatch() bool
	GoBackToHome() bool
	ApplyDimensions(rows, cols int) error

	// Selection and movement
	SelectPiece(pos *Position) bool
	AutoSelect() (Position, bool)
	LegalMovesFrom(pos Position) []Position
	Move(from, to Position) (*MoveRecord, error)

	// Highlights
	ClearHighlights()
	ClearHighlightsFor(moveCount int) bool

	// Configuration
	GetConfig() *GameConfig
}

// GameEngine implements the Engine interface. It owns a single board and is
// not safe for concurrent use; callers serialize access.
type GameEngine struct {
	state  *GameState
	config *GameConfig
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	cfg := *config
	fillDefaultMessages(&cfg)

	e := &GameEngine{config: &cfg}
	e.state = e.freshState(cfg.Rows, cfg.Cols, false)
	e.state.Message = cfg.Messages.Welcome
	return e, nil
}

// NewEngineWithDefaults creates a new game engine on the default 8x8 preset
func NewEngineWithDefaults() *GameEngine {
	e, _ := NewEngine(DefaultConfig())
	return e
}

func (e *GameEngine) freshState(rows, cols int, started bool) *GameState {
	s := &GameState{
		Board:             InitializeBoard(rows, cols),
		Rows:              rows,
		Cols:              cols,
		Turn:              First,
		LegalDestinations: []Position{},
		Started:           started,
		ConfigName:        e.config.Name,
	}
	s.Phase = phaseOf(s)
	return s
}

func phaseOf(s *GameState) Phase {
	switch {
	case s.Winner != nil:
		return PhaseConcluded
	case s.Started:
		return PhaseInProgress
	default:
		return PhaseNotStarted
	}
}

// GetState returns the live game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// Snapshot returns a deep copy of the game state, safe to hand to other goroutines
func (e *GameEngine) Snapshot() *GameState {
	s := *e.state
	s.Board = e.state.Board.Clone()
	s.LegalDestinations = append([]Position{}, e.state.LegalDestinations...)
	if e.state.Selected != nil {
		sel := *e.state.Selected
		s.Selected = &sel
	}
	if e.state.Winner != nil {
		w := *e.state.Winner
		s.Winner = &w
	}
	if e.state.LastMove != nil {
		m := *e.state.LastMove
		s.LastMove = &m
	}
	if e.state.LastCapture != nil {
		p := *e.state.LastCapture
		s.LastCapture = &p
	}
	return &s
}

// SetState replaces the game state (used when restoring a snapshot)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if err := ValidateDimensions(state.Rows, state.Cols); err != nil {
		return err
	}
	if state.Board.Rows != state.Rows || state.Board.Cols != state.Cols || len(state.Board.Cells) != state.Rows {
		return fmt.Errorf("board is %dx%d but state declares %dx%d",
			state.Board.Rows, state.Board.Cols, state.Rows, state.Cols)
	}
	if !state.Turn.Valid() {
		return fmt.Errorf("unknown side to move %q", state.Turn)
	}
	for r, row := range state.Board.Cells {
		if len(row) != state.Cols {
			return fmt.Errorf("board row %d has %d cells, want %d", r, len(row), state.Cols)
		}
		for c, cell := range row {
			if cell.Piece == nil {
				continue
			}
			if !cell.Piece.Kind.Valid() || !cell.Piece.Side.Valid() {
				return fmt.Errorf("unknown piece %s/%s at %s", cell.Piece.Side, cell.Piece.Kind, Position{Row: r, Col: c})
			}
		}
	}
	if state.LegalDestinations == nil {
		state.LegalDestinations = []Position{}
	}
	state.Phase = phaseOf(state)
	e.state = state
	return nil
}

// Phase returns the lifecycle stage
func (e *GameEngine) Phase() Phase {
	return phaseOf(e.state)
}

// Dimensions returns the current board size
func (e *GameEngine) Dimensions() (int, int) {
	return e.state.Rows, e.state.Cols
}

// GetConfig returns the preset this engine was created with
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// Start begins a game from the pre-game menu
func (e *GameEngine) Start() bool {
	if e.Phase() != PhaseNotStarted {
		return false
	}
	e.begin()
	return true
}

// Restart reinitializes a game that is in progress
func (e *GameEngine) Restart() bool {
	if e.Phase() != PhaseInProgress {
		return false
	}
	e.begin()
	return true
}

// StartNewMatch begins a fresh game after one has concluded
func (e *GameEngine) StartNewMatch() bool {
	if e.Phase() != PhaseConcluded {
		return false
	}
	e.begin()
	return true
}

func (e *GameEngine) begin() {
	e.state = e.freshState(e.state.Rows, e.state.Cols, true)
	e.state.Message = e.config.Messages.Started
}

// GoBackToHome returns to the pre-game menu. The board is kept as it is.
func (e *GameEngine) GoBackToHome() bool {
	if e.Phase() == PhaseNotStarted {
		return false
	}
	s := e.state
	s.Started = false
	s.Winner = nil
	s.clearSelection()
	s.Message = e.config.Messages.BackHome
	s.Phase = phaseOf(s)
	return true
}

// ApplyDimensions resizes the board. Only allowed before the game starts.
func (e *GameEngine) ApplyDimensions(rows, cols int) error {
	if err := ValidateDimensions(rows, cols); err != nil {
		return err
	}
	if e.Phase() != PhaseNotStarted {
		return ErrGameInProgress
	}
	e.state = e.freshState(rows, cols, false)
	e.state.Message = e.config.Messages.Welcome
	return nil
}

// SelectPiece records the selection and caches its legal destinations.
// nil clears the selection. Any on-board square is accepted, including empty
// squares and opposing pieces; those simply have no usable destinations.
func (e *GameEngine) SelectPiece(pos *Position) bool {
	if e.Phase() != PhaseInProgress {
		return false
	}
	s := e.state
	if pos == nil {
		s.clearSelection()
		return true
	}
	if !s.Board.Contains(*pos) {
		return false
	}
	e.selectAt(*pos)
	return true
}

// AutoSelect selects the first piece, scanning rows top to bottom and
// columns left to right, that belongs to the side to move and has at least
// one legal destination.
func (e *GameEngine) AutoSelect() (Position, bool) {
	if e.Phase() != PhaseInProgress {
		return Position{}, false
	}
	s := e.state
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			pos := Position{Row: r, Col: c}
			piece := s.Board.At(pos)
			if piece == nil || piece.Side != s.Turn {
				continue
			}
			if len(LegalMoves(s.Board, pos, s.Rows, s.Cols)) == 0 {
				continue
			}
			e.selectAt(pos)
			return pos, true
		}
	}
	s.clearSelection()
	return Position{}, false
}

func (e *GameEngine) selectAt(pos Position) {
	s := e.state
	s.Board = ClearHighlights(s.Board)
	sel := pos
	s.Selected = &sel
	s.LegalDestinations = nonNil(LegalMoves(s.Board, pos, s.Rows, s.Cols))
}

// LegalMovesFrom returns the legal destinations of the piece at pos on the current board
func (e *GameEngine) LegalMovesFrom(pos Position) []Position {
	s := e.state
	return nonNil(LegalMoves(s.Board, pos, s.Rows, s.Cols))
}

// Move plays from -> to for the side to move. Outside an active game the call
// is ignored and returns (nil, nil). The move is checked against the side to
// move and LegalMoves before it is applied; on failure the state is unchanged
// and an ErrIllegalMove is returned.
func (e *GameEngine) Move(from, to Position) (*MoveRecord, error) {
	if e.Phase() != PhaseInProgress {
		return nil, nil
	}
	s := e.state

	piece := s.Board.At(from)
	if piece == nil {
		return nil, fmt.Errorf("%w: no piece at %s", ErrIllegalMove, from)
	}
	if piece.Side != s.Turn {
		return nil, fmt.Errorf("%w: it is %s's turn", ErrIllegalMove, s.Turn.ColorName())
	}
	if !IsLegalMove(s.Board, from, to) {
		return nil, fmt.Errorf("%w: %s cannot reach %s from %s", ErrIllegalMove, piece.Kind, to, from)
	}

	moved := *piece
	board, captured := ApplyMove(ClearHighlights(s.Board), from, to)

	s.Board = board
	s.MoveCount++
	s.LastMove = &Move{From: from, To: to}
	s.LastCapture = captured
	s.Turn = s.Turn.Opponent()
	s.clearSelection()

	record := &MoveRecord{
		Move:       *s.LastMove,
		Piece:      moved,
		Captured:   captured,
		MoveNumber: s.MoveCount,
	}

	if winner, ok := CheckWinner(board); ok {
		s.Winner = &winner
		record.Winner = &winner
		s.Message = fmt.Sprintf(e.config.Messages.Victory, winner.ColorName())
	} else if captured != nil {
		s.Message = fmt.Sprintf(e.config.Messages.Capture, captured.String())
	} else {
		s.Message = fmt.Sprintf(e.config.Messages.Turn, s.Turn.ColorName())
	}
	s.Phase = phaseOf(s)

	return record, nil
}

// ClearHighlights removes every last-move marker
func (e *GameEngine) ClearHighlights() {
	e.state.Board = ClearHighlights(e.state.Board)
	e.state.LastMove = nil
}

// ClearHighlightsFor clears markers only if no move was played after move
// number moveCount. A deferred clear for an older move is a no-op.
func (e *GameEngine) ClearHighlightsFor(moveCount int) bool {
	if moveCount != e.state.MoveCount || e.state.LastMove == nil {
		return false
	}
	e.ClearHighlights()
	return true
}

func (s *GameState) clearSelection() {
	s.Selected = nil
	s.LegalDestinations = []Position{}
}

func nonNil(p []Position) []Position {
	if p == nil {
		return []Position{}
	}
	return p
}
