// Command validate provides a small CLI that validates board preset JSON
// files in the ../configs directory (or the directory given as the first
// argument). It checks:
//   - JSON structure and required fields
//   - Board dimensions within the playable range
//   - Highlight duration bounds
//   - Message keys and the %s placeholder in formatted messages
//   - The opening position: both sides must start with a legal move
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/leaderchess/game/engine"
)

// Config mirrors the JSON schema for a board preset. Messages is a map so
// unknown keys can be reported.
type Config struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Rows        int               `json:"rows"`
	Cols        int               `json:"cols"`
	HighlightMS *int              `json:"highlight_ms"`
	Messages    map[string]string `json:"messages"`
}

// knownMessages maps each message key to whether it needs a %s placeholder
var knownMessages = map[string]bool{
	"welcome":   false,
	"started":   false,
	"turn":      true,
	"capture":   true,
	"victory":   true,
	"illegal":   false,
	"back_home": false,
}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single preset file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if strings.TrimSpace(config.Name) == "" {
		result.fail("name is required")
	}
	if strings.TrimSpace(config.Description) == "" {
		result.fail("description is required")
	}

	if config.Rows < engine.MinBoardSize || config.Rows > engine.MaxBoardSize {
		result.fail("rows must be between %d and %d, got %d", engine.MinBoardSize, engine.MaxBoardSize, config.Rows)
	}
	if config.Cols < engine.MinBoardSize || config.Cols > engine.MaxBoardSize {
		result.fail("cols must be between %d and %d, got %d", engine.MinBoardSize, engine.MaxBoardSize, config.Cols)
	}

	if config.HighlightMS == nil {
		result.fail("highlight_ms is required")
	} else if ms := *config.HighlightMS; ms < 0 || ms > engine.MaxHighlightMillis {
		result.fail("highlight_ms must be between 0 and %d, got %d", engine.MaxHighlightMillis, ms)
	}

	keys := make([]string, 0, len(config.Messages))
	for key := range config.Messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		needsPlaceholder, known := knownMessages[key]
		switch {
		case !known:
			result.fail("Unknown message: %s", key)
		case needsPlaceholder && !strings.Contains(config.Messages[key], "%s"):
			result.fail("Message %s must contain %%s", key)
		}
	}

	if !result.Valid {
		return result
	}

	// Opening position
	b := engine.InitializeBoard(config.Rows, config.Cols)
	for _, side := range []engine.Side{engine.First, engine.Second} {
		if engine.Mobility(b, side) == 0 {
			result.fail("%s has no legal opening move", side.ColorName())
		}
	}
	if !result.Valid {
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %dx%d", config.Rows, config.Cols))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Highlight: %dms", *config.HighlightMS))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Messages: %d overridden", len(config.Messages)))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Opening moves: white %d, black %d",
		engine.Mobility(b, engine.First), engine.Mobility(b, engine.Second)))

	return result
}

// validateDir validates every *.json file in dir, writes a report to w and
// reports whether all of them are valid
func validateDir(w io.Writer, dir string) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no presets found in %s", dir)
	}
	sort.Strings(files)

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Fprintln(w, "  ❌ "+err)
				}
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some configurations have errors")
	}
	return allValid, nil
}

// main validates the preset directory, exiting with non-zero status if any preset is invalid
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	allValid, err := validateDir(os.Stdout, configDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if !allValid {
		os.Exit(1)
	}
}
