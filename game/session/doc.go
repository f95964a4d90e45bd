// Package session provides in-memory session management for the toy robot simulator.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session cleanup and expiration
//
// Manager is the main session manager. Each service.Session it hands out owns
// exactly one engine.Robot, created unplaced with an empty history.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters taken from crypto/rand. Caller-supplied
// IDs are accepted as-is. Lookups are case-insensitive.
//
// Sessions live only in memory. Nothing is written to disk; restarting the
// process starts every robot over.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("")
//	if err != nil {
//		log.Fatal(err)
//	}
//	sess.Robot.Place(0, 0, engine.North)
//
//	// Remove sessions idle for more than an hour
//	removed := manager.CleanupExpiredSessions(time.Hour)
package session
