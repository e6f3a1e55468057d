// Package service provides the business logic layer for the arcade.
//
// GameService is the single entry point used by the REST API and the MCP
// tools. It starts games, routes actions to the right session and returns
// public views.
//
// Interfaces:
//   - GameService: starting games, acting on sessions, introspection
//   - SessionManager: session storage with per-session locking
//   - ConfigManager: active game presets
//
// Every action runs inside SessionManager.With, so concurrent calls on the
// same session are applied one full read-modify-write at a time. Calls on
// different sessions run in parallel.
//
// Errors returned by the service are *engine.Error values (or wrap one),
// so callers can map them with engine.KindOf.
//
// Usage:
//
//	svc := service.NewGameService(sessions, presets, rng.New(seed), logger)
//
//	start, err := svc.Start(ctx, engine.NumberGuess, "easy")
//	if err != nil {
//		return err
//	}
//
//	res, err := svc.Act(ctx, start.SessionID, engine.Guess{Value: 25})
package service
