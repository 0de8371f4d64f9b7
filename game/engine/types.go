package engine

import (
	"fmt"
	"time"
)

// PieceKind identifies one of the three movement roles
type PieceKind string

const (
	Runner PieceKind = "runner" // slides up to RunnerRange squares in any of 8 directions
	Leaper PieceKind = "leaper" // jumps in an L shape, ignoring pieces in between
	Leader PieceKind = "leader" // steps one square; losing it loses the game
)

// Valid reports whether k is one of the known kinds
func (k PieceKind) Valid() bool {
	switch k {
	case Runner, Leaper, Leader:
		return true
	}
	return false
}

// Side identifies a player. First always moves first.
type Side string

const (
	First  Side = "first"
	Second Side = "second"
)

// Valid reports whether s is First or Second
func (s Side) Valid() bool {
	return s == First || s == Second
}

// Opponent returns the other side
func (s Side) Opponent() Side {
	if s == First {
		return Second
	}
	return First
}

// ColorName returns the piece color shown to players
func (s Side) ColorName() string {
	if s == First {
		return "white"
	}
	return "black"
}

// Phase is the lifecycle stage of a game session
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInProgress Phase = "in_progress"
	PhaseConcluded  Phase = "concluded"
)

const (
	// Board size limits (inclusive)
	MinBoardSize = 6
	MaxBoardSize = 12
	DefaultRows  = 8
	DefaultCols  = 8

	// RunnerRange is the furthest a runner may slide in one move
	RunnerRange = 3

	// DefaultHighlightDuration is how long last-move markers stay on the board
	DefaultHighlightDuration = 3 * time.Second
	MaxHighlightMillis       = 60000
)

// Position is a zero-based board coordinate. Row grows downward, Col rightward.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Offset returns the position shifted by dr rows and dc columns
func (p Position) Offset(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// Piece is a single piece on the board
type Piece struct {
	Kind PieceKind `json:"kind"`
	Side Side      `json:"side"`
}

func (p Piece) String() string {
	return fmt.Sprintf("%s %s", p.Side.ColorName(), p.Kind)
}

// Cell represents a single board square
type Cell struct {
	Piece       *Piece `json:"piece,omitempty"`
	Highlighted bool   `json:"highlighted,omitempty"` // last-move marker, never affects legality
}

// Board is a rows x cols matrix of cells. Functions in this package treat a
// Board as a value: they return fresh copies and never mutate their input.
type Board struct {
	Rows  int      `json:"rows"`
	Cols  int      `json:"cols"`
	Cells [][]Cell `json:"cells"`
}

// Move is a from/to pair
type Move struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// MoveRecord describes an applied move
type MoveRecord struct {
	Move       Move   `json:"move"`
	Piece      Piece  `json:"piece"`
	Captured   *Piece `json:"captured,omitempty"`
	Winner     *Side  `json:"winner,omitempty"`
	MoveNumber int    `json:"move_number"`
}

// GameConfig describes a board preset loaded from JSON
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	HighlightMS int    `json:"highlight_ms"`
	Messages    struct {
		Welcome  string `json:"welcome"`
		Started  string `json:"started"`
		Turn     string `json:"turn"`
		Capture  string `json:"capture"`
		Victory  string `json:"victory"`
		Illegal  string `json:"illegal"`
		BackHome string `json:"back_home"`
	} `json:"messages"`
}

// HighlightDuration returns how long last-move markers stay visible
func (c *GameConfig) HighlightDuration() time.Duration {
	if c == nil || c.HighlightMS <= 0 {
		return DefaultHighlightDuration
	}
	return time.Duration(c.HighlightMS) * time.Millisecond
}

// GameState represents the complete session state
type GameState struct {
	Board             Board      `json:"board"`
	Rows              int        `json:"rows"`
	Cols              int        `json:"cols"`
	Turn              Side       `json:"turn"`
	Selected          *Position  `json:"selected"`
	LegalDestinations []Position `json:"legal_destinations"`
	Winner            *Side      `json:"winner"`
	LastMove          *Move      `json:"last_move"`
	LastCapture       *Piece     `json:"last_capture,omitempty"`
	Started           bool       `json:"started"`
	Phase             Phase      `json:"phase"`
	Message           string     `json:"message"`
	MoveCount         int        `json:"move_count"`
	ConfigName        string     `json:"config_name"`
}
