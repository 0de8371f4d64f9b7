package engine

// ApplyMove moves whatever piece is at from onto to and returns the new board
// together with the piece previously on to, if any. It does not check
// legality; callers validate against LegalMoves first. Both squares are
// marked highlighted on the returned board. b itself is left untouched.
// Moving a square onto itself returns an unchanged copy.
func ApplyMove(b Board, from, to Position) (Board, *Piece) {
	next := b.Clone()
	if from == to {
		return next, nil
	}

	fromCell := &next.Cells[from.Row][from.Col]
	toCell := &next.Cells[to.Row][to.Col]

	captured := toCell.Piece
	toCell.Piece = fromCell.Piece
	fromCell.Piece = nil

	fromCell.Highlighted = true
	toCell.Highlighted = true

	return next, captured
}

// ClearHighlights returns a copy of b with every highlight removed
func ClearHighlights(b Board) Board {
	next := b.Clone()
	for r := range next.Cells {
		for c := range next.Cells[r] {
			next.Cells[r][c].Highlighted = false
		}
	}
	return next
}
