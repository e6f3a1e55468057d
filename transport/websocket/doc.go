// Package websocket pushes arcade session events to spectators.
//
// A central Hub owns every connection. Each client attaches to one game
// session with ?session=<game_id> and receives a JSON Message for every
// event on that session:
//
//	{"session_id": "...", "event": "game_action", "data": {...}}
//
// Events are game_started, game_action and session_deleted. The payload
// of a game_action is the action result returned by the REST API.
// Clients never send commands over the socket; reads only keep the
// connection alive.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	hub.BroadcastToSession(id, websocket.EventAction, result)
//
// BroadcastToSession never blocks the caller. When the queue is full the
// event is dropped, and a spectator that cannot keep up is disconnected.
package websocket
