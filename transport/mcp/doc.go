// Package mcp exposes the Mars Rover Alien Hunt to AI agents over the Model
// Context Protocol.
//
// The Client registers one MCP tool per game operation and proxies every call
// to the REST API, so agents and browsers share the same sessions.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - start_game: start the countdown (the viewport width picks the grid size)
//   - pilot: one rover command (l, r, f, b)
//   - bulk_pilot: up to 50 commands, stopping at the first refusal
//   - reset_game, close_dialog, toggle_audio, set_viewport
//   - game_state, move_history: observation
//   - list_configs, game_instructions: reference material
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: the server's /mcp endpoint passes request bodies to HandleMessage
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
