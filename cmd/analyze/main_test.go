package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/leaderchess/game/engine"
)

func TestAnalyzeConfig_Compact(t *testing.T) {
	report, err := analyzeConfig(filepath.Join("..", "..", "configs", "compact.json"))
	if err != nil {
		t.Fatalf("analyzeConfig failed: %v", err)
	}

	if report.Rows != 6 || report.Cols != 6 {
		t.Errorf("Expected 6x6, got %dx%d", report.Rows, report.Cols)
	}
	for _, side := range []engine.Side{engine.First, engine.Second} {
		if report.Pieces[side] != 3 {
			t.Errorf("%s: expected 3 pieces, got %d", side, report.Pieces[side])
		}
		// leader 2, runner 7, leaper 4
		if report.Mobility[side] != 13 {
			t.Errorf("%s: expected 13 opening moves, got %d", side, report.Mobility[side])
		}
	}

	want := []PieceMoves{
		{Piece: engine.Piece{Kind: engine.Leader, Side: engine.First}, Square: "A1", Moves: 2},
		{Piece: engine.Piece{Kind: engine.Runner, Side: engine.First}, Square: "B1", Moves: 7},
		{Piece: engine.Piece{Kind: engine.Leaper, Side: engine.First}, Square: "C1", Moves: 4},
	}
	got := report.PieceMoves[engine.First]
	if len(got) != len(want) {
		t.Fatalf("Expected %d pieces, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Piece %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}

	if report.LeaderDistance != 5 {
		t.Errorf("Expected leader distance 5, got %d", report.LeaderDistance)
	}
}

func TestAnalyzeConfig_Wide(t *testing.T) {
	report, err := analyzeConfig(filepath.Join("..", "..", "configs", "wide.json"))
	if err != nil {
		t.Fatalf("analyzeConfig failed: %v", err)
	}
	if report.LeaderDistance != 11 {
		t.Errorf("Expected leader distance 11 on 8x12, got %d", report.LeaderDistance)
	}
}

func TestAnalyzeConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.json")
	os.WriteFile(path, []byte(`{"name":"Tiny","description":"too small","rows":4,"cols":4}`), 0644)

	if _, err := analyzeConfig(path); err == nil {
		t.Error("Expected error for 4x4 preset")
	}
	if _, err := analyzeConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestAnalyzePreset(t *testing.T) {
	t.Setenv("CONFIG_DIR", filepath.Join("..", "..", "configs"))

	report, err := analyzePreset("grand")
	if err != nil {
		t.Fatalf("analyzePreset failed: %v", err)
	}
	if report.File != "grand.json" || report.Rows != 12 || report.Cols != 12 {
		t.Errorf("Unexpected report %s %dx%d", report.File, report.Rows, report.Cols)
	}
	if report.LeaderDistance != 11 {
		t.Errorf("Expected leader distance 11, got %d", report.LeaderDistance)
	}

	if _, err := analyzePreset("missing"); err == nil {
		t.Error("Expected error for missing preset")
	}
}

func TestPrintReport(t *testing.T) {
	report, err := analyzeConfig(filepath.Join("..", "..", "configs", "compact.json"))
	if err != nil {
		t.Fatalf("analyzeConfig failed: %v", err)
	}

	var buf bytes.Buffer
	printReport(&buf, report)
	out := buf.String()

	for _, want := range []string{
		"Name: Compact",
		"Board: 6 x 6",
		"white: 3 pieces, 13 opening moves",
		"   runner at B1: 7",
		"black: 3 pieces, 13 opening moves",
		"Leader distance: 5",
		"✅ Leaders start out of early reach",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "unequal mobility") {
		t.Error("Mirrored opening should not warn about mobility")
	}

	report.LeaderDistance = 3
	buf.Reset()
	printReport(&buf, report)
	if !strings.Contains(buf.String(), "leaders start only 3 steps apart") {
		t.Errorf("Expected early contact warning, got:\n%s", buf.String())
	}
}
