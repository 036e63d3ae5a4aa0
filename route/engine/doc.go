// Package engine provides the core route tracking logic for the Route Plotter.
//
// The engine package implements:
//   - Coordinate values with addition and equality
//   - Bounds checking against a 1-indexed rows x cols grid
//   - A compass direction table (N, S, E, W) mapped to unit deltas
//   - Route tracking with atomic, bounds-checked moves and removals
//   - Text rendering of a route as a grid with axis labels
//   - Grid profiles and route statistics
//
// Core Types:
//
// Coordinate is an immutable (x, y) point. Tracker owns the ordered list of
// visited coordinates for one route and enforces the grid bounds. Renderer
// turns a tracker into a printable grid. Profile describes the grid size and
// marker used for a route and is loaded from profile files.
//
// Usage:
//
//	tracker, err := engine.NewTracker(3, 3, engine.Coordinate{X: 1, Y: 1})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, token := range []string{"N", "N", "E"} {
//		if _, err := tracker.Move(token); err != nil {
//			log.Fatal(err)
//		}
//	}
//
//	fmt.Println(engine.Render(tracker))
//
// Grid Orientation:
//
// The grid is Cartesian: column 1 is on the left and row 1 is at the bottom.
// Moving N increases Y, moving E increases X. Coordinates are grid cells,
// not screen positions.
//
// Ownership:
//
// A Tracker has no internal locking. It belongs to exactly one owner at a
// time; callers that share a tracker across goroutines must serialize
// access themselves (the service package does this with a mutex).
package engine
