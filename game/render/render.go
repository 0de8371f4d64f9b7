package render

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/leaderchess/game/engine"
)

const (
	// TargetCellSize is the preferred square size in pixels
	TargetCellSize = 80.0
	// MaxBoardPixels caps the rendered board's width and height
	MaxBoardPixels = 800.0
)

// CellSize returns the square size that keeps a rows x cols board within MaxBoardPixels
func CellSize(rows, cols int) float64 {
	size := TargetCellSize
	if cols > 0 && float64(cols)*size > MaxBoardPixels {
		size = MaxBoardPixels / float64(cols)
	}
	if rows > 0 && float64(rows)*size > MaxBoardPixels {
		size = min(size, MaxBoardPixels/float64(rows))
	}
	return size
}

// IsDark reports whether the square at (row, col) uses the dark color
func IsDark(row, col int) bool {
	return (row+col)%2 != 0
}

// Letter returns the ASCII letter for a piece: L, R or J, upper case for the
// first side and lower case for the second. Empty squares are '.'.
func Letter(p *engine.Piece) rune {
	if p == nil {
		return '.'
	}
	var r rune
	switch p.Kind {
	case engine.Leader:
		r = 'L'
	case engine.Runner:
		r = 'R'
	case engine.Leaper:
		r = 'J'
	default:
		r = '?'
	}
	if p.Side == engine.Second {
		r += 'a' - 'A'
	}
	return r
}

// Symbol returns the chess glyph used for a piece in graphical output
func Symbol(p *engine.Piece) string {
	if p == nil {
		return ""
	}
	white := p.Side == engine.First
	switch p.Kind {
	case engine.Leader:
		return pick(white, "♔", "♚")
	case engine.Runner:
		return pick(white, "♕", "♛")
	case engine.Leaper:
		return pick(white, "♘", "♞")
	}
	return "?"
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

// ASCII draws the board with file letters and rank numbers. Highlighted empty
// squares show as '*'.
func ASCII(b engine.Board) string {
	var sb strings.Builder

	header := fileHeader(b.Cols)
	sb.WriteString(header)
	for r := 0; r < b.Rows; r++ {
		fmt.Fprintf(&sb, "%2d", b.Rows-r)
		for c := 0; c < b.Cols; c++ {
			cell := b.Cells[r][c]
			ch := Letter(cell.Piece)
			if cell.Piece == nil && cell.Highlighted {
				ch = '*'
			}
			sb.WriteByte(' ')
			sb.WriteRune(ch)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(header)
	return sb.String()
}

func fileHeader(cols int) string {
	var sb strings.Builder
	sb.WriteString("  ")
	for c := 0; c < cols; c++ {
		sb.WriteByte(' ')
		sb.WriteByte(byte('A' + c))
	}
	sb.WriteByte('\n')
	return sb.String()
}

// Summary describes a state in one line: phase, side to move and message
func Summary(state *engine.GameState) string {
	if state == nil {
		return ""
	}
	switch state.Phase {
	case engine.PhaseConcluded:
		winner := "nobody"
		if state.Winner != nil {
			winner = state.Winner.ColorName()
		}
		return fmt.Sprintf("[%dx%d] concluded, %s won after %d moves. %s",
			state.Rows, state.Cols, winner, state.MoveCount, state.Message)
	case engine.PhaseInProgress:
		return fmt.Sprintf("[%dx%d] move %d, %s to move. %s",
			state.Rows, state.Cols, state.MoveCount+1, state.Turn.ColorName(), state.Message)
	default:
		return fmt.Sprintf("[%dx%d] not started. %s", state.Rows, state.Cols, state.Message)
	}
}
