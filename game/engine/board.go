package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// NewEmptyBoard creates a board of empty cells. Dimensions are not validated here.
func NewEmptyBoard(rows, cols int) Board {
	cells := make([][]Cell, rows)
	for r := range cells {
		cells[r] = make([]Cell, cols)
	}
	return Board{Rows: rows, Cols: cols, Cells: cells}
}

// InBounds reports whether pos lies inside a rows x cols grid
func InBounds(pos Position, rows, cols int) bool {
	return pos.Row >= 0 && pos.Row < rows && pos.Col >= 0 && pos.Col < cols
}

// InitializeBoard returns a board with the starting placement: the second side
// in the top-right corner, the first side in the bottom-left corner.
func InitializeBoard(rows, cols int) Board {
	b := NewEmptyBoard(rows, cols)

	b.Cells[0][cols-1].Piece = &Piece{Kind: Leader, Side: Second}
	b.Cells[0][cols-2].Piece = &Piece{Kind: Runner, Side: Second}
	b.Cells[0][cols-3].Piece = &Piece{Kind: Leaper, Side: Second}

	b.Cells[rows-1][0].Piece = &Piece{Kind: Leader, Side: First}
	b.Cells[rows-1][1].Piece = &Piece{Kind: Runner, Side: First}
	b.Cells[rows-1][2].Piece = &Piece{Kind: Leaper, Side: First}

	return b
}

// Contains reports whether pos is on this board
func (b Board) Contains(pos Position) bool {
	return InBounds(pos, b.Rows, b.Cols)
}

// At returns the piece at pos, or nil when the square is empty or off the board
func (b Board) At(pos Position) *Piece {
	if !b.Contains(pos) || pos.Row >= len(b.Cells) || pos.Col >= len(b.Cells[pos.Row]) {
		return nil
	}
	return b.Cells[pos.Row][pos.Col].Piece
}

// Clone returns a deep copy. Pieces are copied too so the snapshots share nothing.
func (b Board) Clone() Board {
	out := Board{Rows: b.Rows, Cols: b.Cols, Cells: make([][]Cell, len(b.Cells))}
	for r, row := range b.Cells {
		out.Cells[r] = make([]Cell, len(row))
		for c, cell := range row {
			out.Cells[r][c].Highlighted = cell.Highlighted
			if cell.Piece != nil {
				p := *cell.Piece
				out.Cells[r][c].Piece = &p
			}
		}
	}
	return out
}

// HighlightedCells lists highlighted squares in row-major order
func (b Board) HighlightedCells() []Position {
	var out []Position
	for r, row := range b.Cells {
		for c, cell := range row {
			if cell.Highlighted {
				out = append(out, Position{Row: r, Col: c})
			}
		}
	}
	return out
}

// Label returns the square name shown on the board edge: a column letter
// starting at A and a rank counted from the bottom row.
func (p Position) Label(rows int) string {
	return fmt.Sprintf("%c%d", 'A'+p.Col, rows-p.Row)
}

// ParseLabel converts a square name such as "B3" back to a Position
func ParseLabel(label string, rows int) (Position, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) < 2 {
		return Position{}, fmt.Errorf("invalid square %q", label)
	}
	file := label[0]
	if file < 'A' || file > 'Z' {
		return Position{}, fmt.Errorf("invalid square %q: bad column", label)
	}
	rank, err := strconv.Atoi(label[1:])
	if err != nil {
		return Position{}, fmt.Errorf("invalid square %q: bad row", label)
	}
	return Position{Row: rows - rank, Col: int(file - 'A')}, nil
}
