// Package config provides board preset management for Leader Chess.
//
// The config package handles:
//   - Loading presets from JSON files
//   - Validation through engine.ValidateGameConfig
//   - Default preset selection
//   - Preset discovery and listing
//
// Preset Format:
//
// Presets are stored as JSON files in the configs directory. Each one defines
// the board size, how long last-move markers stay visible, and optional
// overrides for the messages shown to players:
//
//	{
//	  "name": "Classic",
//	  "description": "Standard 8x8 board",
//	  "rows": 8,
//	  "cols": 8,
//	  "highlight_ms": 3000,
//	  "messages": {"turn": "%s to move."}
//	}
//
// Shipped presets: classic (8x8), compact (6x6), grand (12x12), wide (8x12).
// When the directory holds no valid preset the built-in classic board is used.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("compact")
//	defaultConfig := manager.GetDefault()
//	presets, err := manager.ListConfigs()
package config
