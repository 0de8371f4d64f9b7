package engine

// CheckWinner reports the side that still has its leader when the other side
// has lost it. With both leaders present, or both missing, there is no winner.
func CheckWinner(b Board) (Side, bool) {
	hasFirst := HasLeader(b, First)
	hasSecond := HasLeader(b, Second)

	switch {
	case !hasFirst && hasSecond:
		return Second, true
	case !hasSecond && hasFirst:
		return First, true
	}
	return "", false
}

// HasLeader reports whether side still has a leader on the board
func HasLeader(b Board, side Side) bool {
	_, ok := FindPiece(b, Piece{Kind: Leader, Side: side})
	return ok
}

// FindPiece returns the first square (row-major) holding a piece equal to want
func FindPiece(b Board, want Piece) (Position, bool) {
	for r, row := range b.Cells {
		for c, cell := range row {
			if cell.Piece != nil && *cell.Piece == want {
				return Position{Row: r, Col: c}, true
			}
		}
	}
	return Position{}, false
}

// CountPieces counts the pieces belonging to side
func CountPieces(b Board, side Side) int {
	count := 0
	for _, row := range b.Cells {
		for _, cell := range row {
			if cell.Piece != nil && cell.Piece.Side == side {
				count++
			}
		}
	}
	return count
}

// Mobility sums the legal destinations of every piece belonging to side
func Mobility(b Board, side Side) int {
	total := 0
	for r, row := range b.Cells {
		for c, cell := range row {
			if cell.Piece == nil || cell.Piece.Side != side {
				continue
			}
			total += len(LegalMoves(b, Position{Row: r, Col: c}, b.Rows, b.Cols))
		}
	}
	return total
}

// ChebyshevDistance is the number of king steps between two squares
func ChebyshevDistance(from, to Position) int {
	dr := abs(from.Row - to.Row)
	dc := abs(from.Col - to.Col)
	if dr > dc {
		return dr
	}
	return dc
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
