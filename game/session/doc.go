// Package session provides in-memory session management for Leader Chess.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Session ID generation
//   - Expiry of idle sessions
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns its own engine instance plus creation and last
// access times.
//
// Session Identifiers:
//
// Generated IDs are the first group of a random UUID, 8 hex characters.
// Lookups are case-insensitive.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
package session
