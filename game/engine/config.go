package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ValidateDimensions checks that both board dimensions are within [MinBoardSize, MaxBoardSize]
func ValidateDimensions(rows, cols int) error {
	if rows < MinBoardSize || rows > MaxBoardSize {
		return fmt.Errorf("%w: rows=%d", ErrInvalidDimensions, rows)
	}
	if cols < MinBoardSize || cols > MaxBoardSize {
		return fmt.Errorf("%w: cols=%d", ErrInvalidDimensions, cols)
	}
	return nil
}

// ParseDimensions parses user-entered dimension strings and validates them
func ParseDimensions(rows, cols string) (int, int, error) {
	r, err := strconv.Atoi(strings.TrimSpace(rows))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: rows=%q is not a number", ErrInvalidDimensions, rows)
	}
	c, err := strconv.Atoi(strings.TrimSpace(cols))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: cols=%q is not a number", ErrInvalidDimensions, cols)
	}
	if err := ValidateDimensions(r, c); err != nil {
		return 0, 0, err
	}
	return r, c, nil
}

// ValidateGameConfig validates a board preset
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if config.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidConfig)
	}
	if config.Rows < MinBoardSize || config.Rows > MaxBoardSize {
		return fmt.Errorf("%w: rows must be between %d and %d, got %d",
			ErrInvalidConfig, MinBoardSize, MaxBoardSize, config.Rows)
	}
	if config.Cols < MinBoardSize || config.Cols > MaxBoardSize {
		return fmt.Errorf("%w: cols must be between %d and %d, got %d",
			ErrInvalidConfig, MinBoardSize, MaxBoardSize, config.Cols)
	}
	if config.HighlightMS < 0 || config.HighlightMS > MaxHighlightMillis {
		return fmt.Errorf("%w: highlight_ms must be between 0 and %d, got %d",
			ErrInvalidConfig, MaxHighlightMillis, config.HighlightMS)
	}

	// Format strings
	if config.Messages.Turn != "" && !strings.Contains(config.Messages.Turn, "%s") {
		return fmt.Errorf("%w: messages.turn must contain %%s for the side to move", ErrInvalidConfig)
	}
	if config.Messages.Victory != "" && !strings.Contains(config.Messages.Victory, "%s") {
		return fmt.Errorf("%w: messages.victory must contain %%s for the winner", ErrInvalidConfig)
	}
	if config.Messages.Capture != "" && !strings.Contains(config.Messages.Capture, "%s") {
		return fmt.Errorf("%w: messages.capture must contain %%s for the captured piece", ErrInvalidConfig)
	}

	return nil
}

// LoadGameConfig loads a preset from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config '%s': %w", filename, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads configs/<name>.json, honoring CONFIG_DIR
func LoadConfigByName(name string) (*GameConfig, error) {
	if !strings.HasSuffix(name, ".json") {
		name = name + ".json"
	}

	configPath := filepath.Join("configs", name)
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		configPath = filepath.Join(configDir, name)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", name)
	}

	config, err := LoadGameConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", name, err)
	}
	return config, nil
}

// DefaultConfig returns the built-in 8x8 preset
func DefaultConfig() *GameConfig {
	config := &GameConfig{
		Name:        "classic",
		Description: "Standard 8x8 board",
		Rows:        DefaultRows,
		Cols:        DefaultCols,
		HighlightMS: int(DefaultHighlightDuration.Milliseconds()),
	}
	fillDefaultMessages(config)
	return config
}

// fillDefaultMessages sets any message the preset left empty
func fillDefaultMessages(config *GameConfig) {
	m := &config.Messages
	if m.Welcome == "" {
		m.Welcome = "Press start to play."
	}
	if m.Started == "" {
		m.Started = "Game started. White moves first."
	}
	if m.Turn == "" {
		m.Turn = "%s to move."
	}
	if m.Capture == "" {
		m.Capture = "Captured %s!"
	}
	if m.Victory == "" {
		m.Victory = "%s wins! The opposing leader has been captured."
	}
	if m.Illegal == "" {
		m.Illegal = "That move is not allowed."
	}
	if m.BackHome == "" {
		m.BackHome = "Back at the menu."
	}
}
