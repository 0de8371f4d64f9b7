// Package api provides the HTTP REST API for Leader Chess.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions             create a session, body {"config_id": "compact"}
//   - GET    /api/sessions             list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}        session info with state and preset
//   - DELETE /api/sessions/{id}        delete a session
//
// Lifecycle:
//   - POST /api/sessions/{id}/start       start the game
//   - POST /api/sessions/{id}/restart     fresh board, same size, game keeps running
//   - POST /api/sessions/{id}/new-match   fresh board after a victory
//   - POST /api/sessions/{id}/home        back to the start screen, board kept
//   - POST /api/sessions/{id}/dimensions  {"rows": 10, "cols": "8"}, before the start only
//
// Play:
//   - GET  /api/sessions/{id}/state
//   - POST /api/sessions/{id}/select        {"position": {"row": 7, "col": 1}}, {"square": "B1"} or {} to clear
//   - POST /api/sessions/{id}/auto-select
//   - GET  /api/sessions/{id}/legal-moves   ?row=7&col=1 or ?square=B1
//   - POST /api/sessions/{id}/move          {"from": {...}, "to": {...}} or {"from_square": "B1", "to_square": "B4"}
//   - GET  /api/sessions/{id}/board.svg
//
// Presets:
//   - GET  /api/configs
//   - GET  /api/configs/{name}
//   - POST /api/configs                     a preset body; ?id= names the file
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id}                  websocket state updates
//
// Squares are addressed either by zero-based row/col, row 0 being the top of
// the board, or by labels such as "B1" with the rank counted from the bottom.
//
// Error Handling:
//
// Errors are returned as {"error": "message"} with a status derived from the
// error: 404 for unknown sessions and presets, 400 for invalid dimensions or
// presets, 409 for illegal moves and resizing a running game. Lifecycle calls
// the current phase does not allow answer 200 with "accepted": false.
package api
