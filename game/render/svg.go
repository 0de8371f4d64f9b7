package render

import (
	"errors"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/wricardo/mcp-training/leaderchess/game/engine"
)

const (
	lightSquare   = "#EEEED2"
	darkSquare    = "#769656"
	lastMoveTint  = "#FF8B1F"
	selectedColor = "#1F6FFF"
)

// SVG writes the board of state as an SVG document
func SVG(w io.Writer, state *engine.GameState) error {
	if state == nil {
		return errors.New("render: nil state")
	}

	b := state.Board
	cell := int(CellSize(b.Rows, b.Cols))
	width, height := b.Cols*cell, b.Rows*cell

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Title(fmt.Sprintf("Leader Chess %dx%d", b.Rows, b.Cols))

	canvas.Gid("squares")
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			x, y := c*cell, r*cell
			fill := lightSquare
			if IsDark(r, c) {
				fill = darkSquare
			}
			canvas.Rect(x, y, cell, cell, "fill:"+fill)
			if b.Cells[r][c].Highlighted {
				canvas.Rect(x, y, cell, cell, fmt.Sprintf("fill:%s;fill-opacity:0.35", lastMoveTint))
			}
		}
	}
	canvas.Gend()

	if sel := state.Selected; sel != nil && b.Contains(*sel) {
		canvas.Rect(sel.Col*cell+2, sel.Row*cell+2, cell-4, cell-4,
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:4", selectedColor))
	}

	canvas.Gid("destinations")
	for _, d := range state.LegalDestinations {
		if !b.Contains(d) {
			continue
		}
		canvas.Circle(d.Col*cell+cell/2, d.Row*cell+cell/2, cell/8, "fill:#000000;fill-opacity:0.25")
	}
	canvas.Gend()

	canvas.Gid("pieces")
	fontSize := cell * 6 / 10
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			p := b.Cells[r][c].Piece
			if p == nil {
				continue
			}
			canvas.Text(c*cell+cell/2, r*cell+cell*7/10, Symbol(p),
				fmt.Sprintf("text-anchor:middle;font-size:%dpx", fontSize))
		}
	}
	canvas.Gend()

	canvas.End()
	return nil
}
