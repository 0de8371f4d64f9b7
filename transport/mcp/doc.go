// Package mcp exposes Leader Chess to AI agents over the Model Context Protocol.
//
// Client is a thin proxy: every tool calls the REST API and formats the answer
// as text with an ASCII board (see game/render). Squares are addressed with
// labels such as "B1".
//
// Tools:
//   - create_session, list_sessions, list_configs
//   - game_state, start_game, restart_game, new_match, go_home, set_dimensions
//   - select_piece, auto_select, legal_moves, move
//   - game_rules
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: the /mcp endpoint mounted by the serve command
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
