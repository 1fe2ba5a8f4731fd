// Package session provides session management for the Mars Rover game.
//
// The session package implements:
//   - Thread-safe in-memory session storage and retrieval
//   - Unique session ID generation
//   - Per-session engines wired to a renderer factory and a clock
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns its own engine.GameEngine, so every player gets an
// independent rover, alien and countdown.
//
// Session Identifiers:
//
// Sessions use 4-character hexadecimal IDs for easy reference. Lookups are
// case-insensitive.
//
// Usage:
//
//	manager := session.NewManager(
//		session.WithRendererFactory(hub.RendererFor),
//	)
//
//	sess, err := manager.Create("", config, 1280)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Cleanup:
//
// Sessions are kept in memory only. Deleting or expiring a session closes its
// engine, which stops the countdown and silences its music.
package session
