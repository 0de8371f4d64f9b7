// Package websocket pushes Leader Chess state to browsers watching a session.
//
// A central Hub owns every connection. Clients subscribe with
// /ws?session=<id> and receive JSON messages:
//
//	{"session_id": "ab12cd34", "event": "state_update", "game_state": {...}}
//
// state_update follows every state-changing REST call, and
// highlights_cleared is sent when last-move markers expire. The hub
// implements service.StateListener for the latter.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	gameService := service.NewGameService(sessions, configs,
//		service.WithStateListener(hub))
//
// Broadcasts are queued on a buffered channel and fanned out by Run, so
// callers never block on slow clients. A client whose send buffer is full is
// disconnected.
package websocket
