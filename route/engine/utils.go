package engine

// ManhattanDistance calculates the Manhattan distance between two coordinates
func ManhattanDistance(from, to Coordinate) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Summarize computes statistics for the route held by t
func Summarize(t *Tracker) Summary {
	start, current := t.Start(), t.Current()
	s := Summary{
		Steps:        len(t.coordinates) - 1,
		Start:        start,
		Current:      current,
		Displacement: ManhattanDistance(start, current),
		Min:          start,
		Max:          start,
	}

	seen := make(map[Coordinate]bool, len(t.coordinates))
	for _, c := range t.coordinates {
		if seen[c] {
			s.Revisits++
		}
		seen[c] = true

		s.Min.X = min(s.Min.X, c.X)
		s.Min.Y = min(s.Min.Y, c.Y)
		s.Max.X = max(s.Max.X, c.X)
		s.Max.Y = max(s.Max.Y, c.Y)
	}
	s.UniqueCells = len(seen)

	return s
}

// CountVisits returns how many times each cell appears in the route
func CountVisits(t *Tracker) map[Coordinate]int {
	visits := make(map[Coordinate]int)
	for _, c := range t.coordinates {
		visits[c]++
	}
	return visits
}
