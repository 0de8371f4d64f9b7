package engine

type offset struct{ dr, dc int }

// kingDirections are the eight unit steps, orthogonal then diagonal
var kingDirections = []offset{
	{-1, 0},  // up
	{1, 0},   // down
	{0, -1},  // left
	{0, 1},   // right
	{-1, -1}, // up-left
	{-1, 1},  // up-right
	{1, -1},  // down-left
	{1, 1},   // down-right
}

var leaperOffsets = []offset{
	{-2, -1}, {-2, 1},
	{-1, -2}, {-1, 2},
	{1, -2}, {1, 2},
	{2, -1}, {2, 1},
}

// LegalMoves returns the squares the piece at pos may move to. The result is
// unordered. An empty square or an out-of-bounds pos yields no moves.
func LegalMoves(b Board, pos Position, rows, cols int) []Position {
	if !InBounds(pos, rows, cols) {
		return nil
	}
	piece := b.At(pos)
	if piece == nil {
		return nil
	}

	switch piece.Kind {
	case Leader:
		return leaderMoves(b, pos, *piece, rows, cols)
	case Leaper:
		return leaperMoves(b, pos, *piece, rows, cols)
	case Runner:
		return runnerMoves(b, pos, *piece, rows, cols)
	default:
		return nil
	}
}

// canLand reports whether piece may finish its move on target: the square
// must be empty or hold an opposing piece.
func canLand(b Board, target Position, piece Piece) bool {
	occupant := b.At(target)
	return occupant == nil || occupant.Side != piece.Side
}

func stepMoves(b Board, from Position, piece Piece, rows, cols int, offsets []offset) []Position {
	moves := make([]Position, 0, len(offsets))
	for _, o := range offsets {
		target := from.Offset(o.dr, o.dc)
		if !InBounds(target, rows, cols) {
			continue
		}
		if canLand(b, target, piece) {
			moves = append(moves, target)
		}
	}
	return moves
}

func leaderMoves(b Board, from Position, piece Piece, rows, cols int) []Position {
	return stepMoves(b, from, piece, rows, cols, kingDirections)
}

// leaperMoves ignores everything between from and the target square
func leaperMoves(b Board, from Position, piece Piece, rows, cols int) []Position {
	return stepMoves(b, from, piece, rows, cols, leaperOffsets)
}

// runnerMoves walks each direction up to RunnerRange squares. The first
// occupied square ends the walk; it is included only when it holds an
// opposing piece.
func runnerMoves(b Board, from Position, piece Piece, rows, cols int) []Position {
	var moves []Position
	for _, d := range kingDirections {
		for step := 1; step <= RunnerRange; step++ {
			target := from.Offset(d.dr*step, d.dc*step)
			if !InBounds(target, rows, cols) {
				break
			}
			occupant := b.At(target)
			if occupant == nil {
				moves = append(moves, target)
				continue
			}
			if occupant.Side != piece.Side {
				moves = append(moves, target)
			}
			break
		}
	}
	return moves
}

// IsLegalMove reports whether to is among the legal destinations of the piece at from
func IsLegalMove(b Board, from, to Position) bool {
	for _, p := range LegalMoves(b, from, b.Rows, b.Cols) {
		if p == to {
			return true
		}
	}
	return false
}
