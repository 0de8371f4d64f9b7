// Package engine provides the rules for Leader Chess, a small variant played
// on a board between 6x6 and 12x12.
//
// The engine package implements:
//   - Board model with value semantics (every transform returns a new Board)
//   - Legal move generation for the three piece kinds
//   - Move application with last-move highlights
//   - Win detection by capture of a side's leader
//   - GameEngine, the per-session turn and selection state machine
//
// Pieces:
//
// Each side starts with three pieces in its own corner:
//   - Leader: one step in any of the 8 directions. Losing it loses the game.
//   - Runner: slides 1 to 3 squares in any of the 8 directions. The first
//     occupied square stops it; an opposing piece there may be captured.
//   - Leaper: jumps in an L shape (like a knight), ignoring pieces between.
//
// Usage:
//
//	eng := engine.NewEngineWithDefaults()
//	eng.Start()
//
//	moves := eng.LegalMovesFrom(engine.Position{Row: 7, Col: 1})
//	rec, err := eng.Move(engine.Position{Row: 7, Col: 1}, moves[0])
//	if err != nil {
//		log.Fatal(err)
//	}
//	if rec.Winner != nil {
//		fmt.Println("winner:", rec.Winner.ColorName())
//	}
//
// Lifecycle:
//
// A GameEngine starts in PhaseNotStarted. Start moves it to PhaseInProgress,
// where selections and moves are accepted. Capturing a leader moves it to
// PhaseConcluded. GoBackToHome returns to the menu keeping the board;
// StartNewMatch and Restart reinitialize the board. Selection and move calls
// outside PhaseInProgress are ignored.
//
// Highlights:
//
// ApplyMove marks the from and to squares. Clearing them after a delay is the
// caller's job; see the highlight package.
package engine
