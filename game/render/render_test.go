package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/leaderchess/game/engine"
)

func TestCellSize(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		want       float64
	}{
		{"classic fits at target size", 8, 8, 80},
		{"compact fits at target size", 6, 6, 80},
		{"ten columns exactly fill the cap", 10, 10, 80},
		{"grand shrinks", 12, 12, 800.0 / 12},
		{"wide board limited by columns", 8, 12, 800.0 / 12},
		{"tall board limited by rows", 12, 8, 800.0 / 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CellSize(tt.rows, tt.cols)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.LessOrEqual(t, got*float64(tt.cols), MaxBoardPixels+1e-9)
			assert.LessOrEqual(t, got*float64(tt.rows), MaxBoardPixels+1e-9)
		})
	}
}

func TestLetter(t *testing.T) {
	assert.Equal(t, '.', Letter(nil))
	assert.Equal(t, 'L', Letter(&engine.Piece{Kind: engine.Leader, Side: engine.First}))
	assert.Equal(t, 'r', Letter(&engine.Piece{Kind: engine.Runner, Side: engine.Second}))
	assert.Equal(t, 'J', Letter(&engine.Piece{Kind: engine.Leaper, Side: engine.First}))
	assert.Equal(t, 'j', Letter(&engine.Piece{Kind: engine.Leaper, Side: engine.Second}))
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "", Symbol(nil))
	assert.Equal(t, "♔", Symbol(&engine.Piece{Kind: engine.Leader, Side: engine.First}))
	assert.Equal(t, "♚", Symbol(&engine.Piece{Kind: engine.Leader, Side: engine.Second}))
	assert.Equal(t, "♞", Symbol(&engine.Piece{Kind: engine.Leaper, Side: engine.Second}))
}

func TestASCII_InitialBoard(t *testing.T) {
	b := engine.InitializeBoard(6, 6)

	want := strings.Join([]string{
		"   A B C D E F",
		" 6 . . . j r l",
		" 5 . . . . . .",
		" 4 . . . . . .",
		" 3 . . . . . .",
		" 2 . . . . . .",
		" 1 L R J . . .",
		"   A B C D E F",
		"",
	}, "\n")

	assert.Equal(t, want, ASCII(b))
}

func TestASCII_Highlights(t *testing.T) {
	b := engine.InitializeBoard(6, 6)
	// runner moved B1 -> B3
	b.Cells[5][1].Piece, b.Cells[3][1].Piece = nil, b.Cells[5][1].Piece
	b.Cells[5][1].Highlighted = true
	b.Cells[3][1].Highlighted = true

	lines := strings.Split(ASCII(b), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, " 3 . R . . . .", lines[4])
	assert.Equal(t, " 1 L * J . . .", lines[6])
}

func TestASCII_TwoDigitRanks(t *testing.T) {
	b := engine.InitializeBoard(12, 12)
	lines := strings.Split(ASCII(b), "\n")

	assert.Equal(t, "   A B C D E F G H I J K L", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "12 "))
	assert.True(t, strings.HasPrefix(lines[12], " 1 L R J"))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "", Summary(nil))

	state := &engine.GameState{Rows: 8, Cols: 8, Phase: engine.PhaseNotStarted, Message: "Press start."}
	assert.Equal(t, "[8x8] not started. Press start.", Summary(state))

	state.Phase = engine.PhaseInProgress
	state.Turn = engine.Second
	state.MoveCount = 3
	state.Message = "Black to move."
	assert.Equal(t, "[8x8] move 4, black to move. Black to move.", Summary(state))

	winner := engine.First
	state.Phase = engine.PhaseConcluded
	state.Winner = &winner
	state.MoveCount = 9
	state.Message = "White wins!"
	assert.Equal(t, "[8x8] concluded, white won after 9 moves. White wins!", Summary(state))
}

func TestSVG(t *testing.T) {
	b := engine.InitializeBoard(8, 8)
	b.Cells[4][4].Highlighted = true
	sel := engine.Position{Row: 7, Col: 1}
	state := &engine.GameState{
		Board:             b,
		Rows:              8,
		Cols:              8,
		Selected:          &sel,
		LegalDestinations: []engine.Position{{Row: 6, Col: 1}, {Row: 5, Col: 1}, {Row: 4, Col: 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, state))
	out := buf.String()

	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, `width="640"`)
	assert.Contains(t, out, "<title>Leader Chess 8x8</title>")
	assert.Contains(t, out, lastMoveTint)
	assert.Contains(t, out, selectedColor)
	assert.Equal(t, 3, strings.Count(out, "<circle"))
	// 64 squares, one highlight overlay, one selection frame
	assert.Equal(t, 66, strings.Count(out, "<rect"))
	assert.Equal(t, 6, strings.Count(out, "<text"))
	assert.Contains(t, out, "♔")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestSVG_LargeBoardStaysWithinCap(t *testing.T) {
	state := &engine.GameState{Board: engine.InitializeBoard(12, 12), Rows: 12, Cols: 12}

	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, state))
	// 800/12 truncates to 66 pixel squares
	assert.Contains(t, buf.String(), `width="792"`)
}

func TestSVG_NilState(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, SVG(&buf, nil))
	assert.Zero(t, buf.Len())
}
