// Package session provides in-memory session storage for the arcade.
//
// Manager implements service.SessionManager. Sessions are keyed by a
// random UUIDv4 generated at creation and live only for the lifetime of
// the process.
//
// Concurrency:
//
// The session map is guarded by a read-write mutex, and every session
// has its own mutex. With holds that per-session lock for the whole
// read-modify-write of an action, so two concurrent flips on one memory
// game can never both become the first card. Different sessions never
// contend on each other's locks.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create(engine.NewTicTacToe())
//	if err != nil {
//		return err
//	}
//
//	err = manager.With(sess.ID, func(s *service.Session) error {
//		_, err := s.Game().Apply(src, engine.Place{Position: 4})
//		return err
//	})
//
// Cleanup:
//
// CleanupExpiredSessions drops sessions idle for longer than a maximum
// age. The server runs it on a ticker.
package session
