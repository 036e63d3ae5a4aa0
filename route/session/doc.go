// Package session provides in-memory session management for the route plotter.
//
// Manager stores service.Session values, each owning one engine.Tracker and
// the profile it was created with. Sessions use 4-character hex IDs drawn
// from crypto/rand, and lookups ignore case.
//
// The manager's lock protects the session map only. Trackers are mutated by
// the service layer, which serializes that access itself.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", profile, engine.Coordinate{X: 1, Y: 1})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Register a tracker built elsewhere, for example by the loader
//	sess, err = manager.Adopt("", profile, result.Tracker)
//
//	// Drop sessions idle for more than a day
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
package session
