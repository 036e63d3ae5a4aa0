// Package loader reads route descriptions and replays them onto a tracker.
//
// A route description is plain text:
//
//	Line 1: starting X coordinate
//	Line 2: starting Y coordinate
//	Line 3 onwards: one move per line, N, S, E or W
//
// Surrounding whitespace is ignored on every line and blank move lines are
// skipped. Unknown move tokens are skipped and reported in the Result. A move
// that would leave the grid aborts the load, and no tracker is returned.
package loader
