// Package api provides the HTTP REST API of the arcade.
//
// Endpoints:
//
// Games:
//   - POST /api/number-guess/start {difficulty?}
//   - POST /api/number-guess/guess {game_id, guess}
//   - POST /api/rps/play {choice}
//   - POST /api/tictactoe/start
//   - POST /api/tictactoe/move {game_id, position}
//   - POST /api/memory/start {difficulty?}
//   - POST /api/memory/flip {game_id, card_index}
//   - POST /api/memory/hide-cards {game_id}
//   - POST /api/snake/start
//   - POST /api/snake/move {game_id, direction?}
//
// Every action accepts an optional player_id. When the action finishes
// the game and a score store is configured, the result is recorded for
// that player and its id is returned in the X-Score-Id header.
//
// Session Management:
//   - GET /api/sessions?sort=created|accessed&order=asc|desc&limit=N&game_type=T
//   - GET /api/sessions/{id}
//   - DELETE /api/sessions/{id}
//
// Scores:
//   - POST /api/scores {player_id, game_type, points, attempts, difficulty?}
//   - GET /api/players/{id}/scores?limit=N
//   - GET /api/players/{id}/best-scores
//
// Other:
//   - GET /api/presets
//   - GET /ws?session=<game_id>
//   - GET /health
//   - GET /metrics
//
// Start responses are the game's initial view with game_id and game_type
// added. Action responses are the action outcome with game_id, game_type
// and game_status added, plus final_result on the action that ended the
// game.
//
// Error Handling:
//
// Errors are returned as JSON:
//
//	{
//	  "error": "position already taken",
//	  "kind": "invalid_move",
//	  "field": "position"
//	}
//
// not_found maps to 404, the other kinds to 400, and anything else to 500.
package api
