package terminal

import (
	"fmt"

	"github.com/nsf/termbox-go"
	"github.com/wricardo/mcp-training/leaderchess/game/engine"
	"github.com/wricardo/mcp-training/leaderchess/game/render"
)

const (
	boardLeft = 3 // rank labels occupy the first columns
	boardTop  = 1 // file letters occupy the first row
	cellWidth = 3
)

// Square colors
const (
	lightBg     = termbox.ColorWhite
	darkBg      = termbox.ColorGreen
	highlightBg = termbox.ColorYellow
	selectedBg  = termbox.ColorRed
	cursorBg    = termbox.ColorMagenta
	destFg      = termbox.ColorBlue
	firstFg     = termbox.ColorRed | termbox.AttrBold
	secondFg    = termbox.ColorBlack | termbox.AttrBold
)

const helpLine = "arrows move  space select/move  a auto  s start  r restart  n new  h home  +/- size  q quit"

// Glyph is one terminal cell
type Glyph struct {
	X, Y int
	Ch   rune
	Fg   termbox.Attribute
	Bg   termbox.Attribute
}

// cellOrigin returns the left-most terminal column and row of a board square
func cellOrigin(pos engine.Position) (int, int) {
	return boardLeft + pos.Col*cellWidth, boardTop + pos.Row
}

// Layout places the board, the cursor and the status lines. It draws nothing,
// so it can be checked without a terminal.
func Layout(state *engine.GameState, cursor engine.Position, status string) []Glyph {
	if state == nil {
		return text(0, 0, status, termbox.ColorDefault, termbox.ColorDefault)
	}

	b := state.Board
	var glyphs []Glyph

	for c := 0; c < b.Cols; c++ {
		x, _ := cellOrigin(engine.Position{Col: c})
		glyphs = append(glyphs, Glyph{X: x + 1, Y: 0, Ch: rune('A' + c), Fg: termbox.ColorDefault, Bg: termbox.ColorDefault})
	}

	dests := make(map[engine.Position]bool, len(state.LegalDestinations))
	for _, d := range state.LegalDestinations {
		dests[d] = true
	}

	for r := 0; r < b.Rows; r++ {
		glyphs = append(glyphs, text(0, boardTop+r, fmt.Sprintf("%2d", b.Rows-r), termbox.ColorDefault, termbox.ColorDefault)...)

		for c := 0; c < b.Cols; c++ {
			pos := engine.Position{Row: r, Col: c}
			cell := b.Cells[r][c]

			bg := lightBg
			if render.IsDark(r, c) {
				bg = darkBg
			}
			if cell.Highlighted {
				bg = highlightBg
			}
			if state.Selected != nil && *state.Selected == pos {
				bg = selectedBg
			}
			if pos == cursor {
				bg = cursorBg
			}

			ch, fg := ' ', termbox.ColorDefault
			switch {
			case cell.Piece != nil:
				ch = render.Letter(cell.Piece)
				fg = firstFg
				if cell.Piece.Side == engine.Second {
					fg = secondFg
				}
			case dests[pos]:
				ch, fg = '·', destFg
			}
			if dests[pos] && cell.Piece != nil {
				fg |= termbox.AttrUnderline
			}

			x, y := cellOrigin(pos)
			glyphs = append(glyphs,
				Glyph{X: x, Y: y, Ch: ' ', Fg: fg, Bg: bg},
				Glyph{X: x + 1, Y: y, Ch: ch, Fg: fg, Bg: bg},
				Glyph{X: x + 2, Y: y, Ch: ' ', Fg: fg, Bg: bg},
			)
		}
	}

	y := boardTop + b.Rows + 1
	glyphs = append(glyphs, text(0, y, render.Summary(state), termbox.ColorDefault|termbox.AttrBold, termbox.ColorDefault)...)
	glyphs = append(glyphs, text(0, y+1, status, termbox.ColorDefault, termbox.ColorDefault)...)
	glyphs = append(glyphs, text(0, y+3, helpLine, termbox.ColorCyan, termbox.ColorDefault)...)
	return glyphs
}

func text(x, y int, s string, fg, bg termbox.Attribute) []Glyph {
	glyphs := make([]Glyph, 0, len(s))
	for _, r := range s {
		glyphs = append(glyphs, Glyph{X: x, Y: y, Ch: r, Fg: fg, Bg: bg})
		x++
	}
	return glyphs
}
