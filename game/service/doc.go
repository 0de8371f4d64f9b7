// Package service provides the business logic layer for Leader Chess.
//
// The service package implements:
//   - Multi-session game management
//   - Lifecycle, selection and move orchestration over the engine
//   - Deferred removal of last-move markers
//   - Board preset listing, loading and saving
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages board presets.
// StateListener is told when a deferred highlight clear changes a board.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP/terminal)
// and the game engine. Each session owns its own engine; the service serializes
// access to every engine with a single mutex, including the timer callbacks
// that clear highlights, and hands out deep-copied state snapshots.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithStateListener(hub))
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameService.StartGame(ctx, info.ID)
//	result, err := gameService.Move(ctx, info.ID,
//		engine.Position{Row: 7, Col: 1}, engine.Position{Row: 4, Col: 1})
//
// Errors:
//
// Unknown sessions yield ErrSessionNotFound and unknown presets
// ErrConfigNotFound. Engine errors (engine.ErrIllegalMove,
// engine.ErrInvalidDimensions, engine.ErrGameInProgress) are passed through
// wrapped, so callers test them with errors.Is.
package service
