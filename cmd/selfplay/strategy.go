package main

import (
	"math/rand"

	"github.com/wricardo/mcp-training/leaderchess/game/engine"
)

// Move scores
const (
	winScore         = 1000
	leaderHangsScore = -500
	captureWeight    = 10
)

var pieceValue = map[engine.PieceKind]int{
	engine.Leader: 100,
	engine.Runner: 3,
	engine.Leaper: 2,
}

// GreedyStrategy looks one move ahead: it wins when it can, captures when it
// can, never leaves its leader en prise if it can help it, and otherwise
// prefers the move that leaves it the most mobility over the opponent.
type GreedyStrategy struct {
	rng *rand.Rand
}

func NewGreedyStrategy(seed int64) *GreedyStrategy {
	return &GreedyStrategy{rng: rand.New(rand.NewSource(seed))}
}

// Candidates lists every legal move of the side to move
func Candidates(state *engine.GameState) []engine.Move {
	var moves []engine.Move
	b := state.Board
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			from := engine.Position{Row: r, Col: c}
			piece := b.At(from)
			if piece == nil || piece.Side != state.Turn {
				continue
			}
			for _, to := range engine.LegalMoves(b, from, b.Rows, b.Cols) {
				moves = append(moves, engine.Move{From: from, To: to})
			}
		}
	}
	return moves
}

// NextMove picks a move for the side to move. ok is false when it has none.
func (s *GreedyStrategy) NextMove(state *engine.GameState) (engine.Move, bool) {
	var best []engine.Move
	bestScore := 0

	for _, m := range Candidates(state) {
		score := Score(state.Board, state.Turn, m)
		switch {
		case len(best) == 0 || score > bestScore:
			best = []engine.Move{m}
			bestScore = score
		case score == bestScore:
			best = append(best, m)
		}
	}

	if len(best) == 0 {
		return engine.Move{}, false
	}
	return best[s.rng.Intn(len(best))], true
}

// Score rates m for side on b
func Score(b engine.Board, side engine.Side, m engine.Move) int {
	next, captured := engine.ApplyMove(b, m.From, m.To)
	if captured != nil && captured.Kind == engine.Leader {
		return winScore
	}

	score := 0
	if captured != nil {
		score += captureWeight * pieceValue[captured.Kind]
	}
	if leaderAttacked(next, side) {
		score += leaderHangsScore
	}
	return score + engine.Mobility(next, side) - engine.Mobility(next, side.Opponent())
}

// leaderAttacked reports whether the opponent could capture side's leader on b
func leaderAttacked(b engine.Board, side engine.Side) bool {
	leader, ok := engine.FindPiece(b, engine.Piece{Kind: engine.Leader, Side: side})
	if !ok {
		return false
	}
	opponent := side.Opponent()
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			from := engine.Position{Row: r, Col: c}
			if piece := b.At(from); piece == nil || piece.Side != opponent {
				continue
			}
			if engine.IsLegalMove(b, from, leader) {
				return true
			}
		}
	}
	return false
}
