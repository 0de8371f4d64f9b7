// Command analyze prints quick, human-readable heuristics about the board
// presets in a configs directory, or of the presets named on the command
// line (resolved through CONFIG_DIR). For every preset it summarizes the
// dimensions, piece counts, and the mobility each side starts with, and warns
// when the leaders start close enough to reach each other early.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/leaderchess/game/engine"
)

// Report is the analysis of one preset
type Report struct {
	File           string
	Name           string
	Rows, Cols     int
	HighlightMS    int
	Pieces         map[engine.Side]int
	Mobility       map[engine.Side]int
	PieceMoves     map[engine.Side][]PieceMoves
	LeaderDistance int
}

// PieceMoves counts the opening destinations of one piece
type PieceMoves struct {
	Piece  engine.Piece
	Square string
	Moves  int
}

// earlyContact is the leader distance at or below which both leaders can be
// attacked within the first few moves
const earlyContact = 4

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		args = []string{"configs"}
	}

	if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
		analyzeDir(args[0])
		return
	}

	for _, name := range args {
		fmt.Printf("\n=== Analyzing %s ===\n", name)
		report, err := analyzePreset(name)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printReport(os.Stdout, report)
	}
}

func analyzeDir(dir string) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(files) == 0 {
		fmt.Printf("No presets found in %s\n", dir)
		os.Exit(1)
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		report, err := analyzeConfig(file)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printReport(os.Stdout, report)
	}
}

// analyzePreset analyzes configs/<name>.json, honoring CONFIG_DIR
func analyzePreset(name string) (*Report, error) {
	config, err := engine.LoadConfigByName(name)
	if err != nil {
		return nil, err
	}
	return analyze(strings.TrimSuffix(name, ".json")+".json", config), nil
}

// analyzeConfig loads a preset and inspects its opening position
func analyzeConfig(path string) (*Report, error) {
	config, err := engine.LoadGameConfig(path)
	if err != nil {
		return nil, err
	}
	return analyze(filepath.Base(path), config), nil
}

// analyze inspects the opening position of config
func analyze(file string, config *engine.GameConfig) *Report {
	b := engine.InitializeBoard(config.Rows, config.Cols)
	report := &Report{
		File:        file,
		Name:        config.Name,
		Rows:        config.Rows,
		Cols:        config.Cols,
		HighlightMS: config.HighlightMS,
		Pieces:      make(map[engine.Side]int),
		Mobility:    make(map[engine.Side]int),
		PieceMoves:  make(map[engine.Side][]PieceMoves),
	}

	for _, side := range []engine.Side{engine.First, engine.Second} {
		report.Pieces[side] = engine.CountPieces(b, side)
		report.Mobility[side] = engine.Mobility(b, side)

		for _, kind := range []engine.PieceKind{engine.Leader, engine.Runner, engine.Leaper} {
			piece := engine.Piece{Kind: kind, Side: side}
			pos, ok := engine.FindPiece(b, piece)
			if !ok {
				continue
			}
			report.PieceMoves[side] = append(report.PieceMoves[side], PieceMoves{
				Piece:  piece,
				Square: pos.Label(b.Rows),
				Moves:  len(engine.LegalMoves(b, pos, b.Rows, b.Cols)),
			})
		}
	}

	first, _ := engine.FindPiece(b, engine.Piece{Kind: engine.Leader, Side: engine.First})
	second, _ := engine.FindPiece(b, engine.Piece{Kind: engine.Leader, Side: engine.Second})
	report.LeaderDistance = engine.ChebyshevDistance(first, second)

	return report
}

// printReport writes report in the tool's text format
func printReport(w io.Writer, r *Report) {
	fmt.Fprintf(w, "Name: %s\n", r.Name)
	fmt.Fprintf(w, "Board: %d x %d\n", r.Rows, r.Cols)
	fmt.Fprintf(w, "Highlight: %dms\n", r.HighlightMS)

	for _, side := range []engine.Side{engine.First, engine.Second} {
		fmt.Fprintf(w, "%s: %d pieces, %d opening moves\n", side.ColorName(), r.Pieces[side], r.Mobility[side])
		for _, pm := range r.PieceMoves[side] {
			fmt.Fprintf(w, "   %s at %s: %d\n", pm.Piece.Kind, pm.Square, pm.Moves)
		}
	}

	fmt.Fprintf(w, "Leader distance: %d\n", r.LeaderDistance)
	if r.Mobility[engine.First] != r.Mobility[engine.Second] {
		fmt.Fprintf(w, "⚠️  WARNING: sides start with unequal mobility\n")
	}
	if r.LeaderDistance <= earlyContact {
		fmt.Fprintf(w, "⚠️  WARNING: leaders start only %d steps apart\n", r.LeaderDistance)
	} else {
		fmt.Fprintf(w, "✅ Leaders start out of early reach\n")
	}
}
