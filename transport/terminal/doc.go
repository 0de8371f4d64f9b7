// Package terminal plays a Leader Chess session in a terminal with termbox.
//
// Keys: arrows move the cursor, space or enter selects the piece under the
// cursor or moves the selected piece there, a auto-selects, s starts,
// r restarts, n starts a new match, h goes home, + and - resize the board
// before the game starts, q or Esc quits.
//
// Layout builds the screen as a list of glyphs and HandleKey drives the game
// service, so both work without a terminal. Run owns the termbox loop; a
// Redraw passed to the service as its StateListener wakes it when last-move
// markers expire.
package terminal
