// Package mcp exposes the arcade to AI agents over the Model Context Protocol.
//
// The client is thin: every tool call is forwarded to the REST API and the
// JSON response is rendered as text. Boards and grids are drawn so an agent
// can read them directly.
//
// Tools:
//   - start_number_guess, guess_number
//   - play_rps
//   - start_tictactoe, tictactoe_move
//   - start_memory, flip_card, hide_cards
//   - start_snake, snake_move
//   - list_sessions, get_session, delete_session
//   - list_presets, game_instructions
//
// Action tools take an optional player_id. The action that ends a game
// records its score for that player.
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST /mcp on the main server, handled by HandleMessage
package mcp
