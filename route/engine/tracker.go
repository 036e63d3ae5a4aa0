package engine

import "fmt"

// Tracker records the ordered list of cells visited by a route on a
// rows x cols grid. It always holds at least one coordinate and every
// coordinate it holds is inside the grid.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	rows        int
	cols        int
	coordinates []Coordinate
}

// NewTracker creates a tracker seeded with start
func NewTracker(rows, cols int, start Coordinate) (*Tracker, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, rows, cols)
	}
	if !InBounds(start, rows, cols) {
		return nil, fmt.Errorf("initial position %s is invalid for a %dx%d grid: %w", start, rows, cols, ErrOutOfGrid)
	}

	return &Tracker{
		rows:        rows,
		cols:        cols,
		coordinates: []Coordinate{start},
	}, nil
}

// Rows returns the number of grid rows
func (t *Tracker) Rows() int {
	return t.rows
}

// Cols returns the number of grid columns
func (t *Tracker) Cols() int {
	return t.cols
}

// Len returns the number of coordinates in the route
func (t *Tracker) Len() int {
	return len(t.coordinates)
}

// Start returns the first coordinate of the route
func (t *Tracker) Start() Coordinate {
	return t.coordinates[0]
}

// Current returns the most recently added coordinate
func (t *Tracker) Current() Coordinate {
	return t.coordinates[len(t.coordinates)-1]
}

// Coordinates returns a copy of the route in insertion order
func (t *Tracker) Coordinates() []Coordinate {
	out := make([]Coordinate, len(t.coordinates))
	copy(out, t.coordinates)
	return out
}

// InBounds reports whether c lies inside the tracker's grid
func (t *Tracker) InBounds(c Coordinate) bool {
	return InBounds(c, t.rows, t.cols)
}

// Move steps from the current coordinate in the given direction and appends
// the new coordinate. An unknown token returns ErrInvalidDirection and a step
// off the grid returns ErrOutOfGrid; in both cases the route is unchanged.
func (t *Tracker) Move(direction string) (Coordinate, error) {
	d, err := ParseDirection(direction)
	if err != nil {
		return Coordinate{}, err
	}

	from := t.Current()
	candidate := from.Add(deltas[d])
	if !t.InBounds(candidate) {
		return Coordinate{}, fmt.Errorf("move %s from %s to %s: %w", d, from, candidate, ErrOutOfGrid)
	}

	t.coordinates = append(t.coordinates, candidate)
	return candidate, nil
}

// CanMove reports whether a move in direction would be accepted
func (t *Tracker) CanMove(direction string) bool {
	d, err := ParseDirection(direction)
	if err != nil {
		return false
	}
	return t.InBounds(t.Current().Add(deltas[d]))
}

// PossibleMoves returns the directions that keep the route on the grid
func (t *Tracker) PossibleMoves() []Direction {
	var possible []Direction
	for _, d := range Directions() {
		if t.CanMove(string(d)) {
			possible = append(possible, d)
		}
	}
	return possible
}

// RemoveLast removes the most recently added coordinate
func (t *Tracker) RemoveLast() (Coordinate, error) {
	return t.RemoveCoordinate(-1)
}

// RemoveCoordinate removes the coordinate at index and returns it. Index 0 is
// the start; negative indices count back from the end, so -1 is the last.
// The only remaining coordinate can never be removed.
func (t *Tracker) RemoveCoordinate(index int) (Coordinate, error) {
	n := len(t.coordinates)
	i := index
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return Coordinate{}, fmt.Errorf("%w: index %d, route has %d coordinates", ErrIndexOutOfRange, index, n)
	}
	if n == 1 {
		return Coordinate{}, ErrLastCoordinate
	}

	removed := t.coordinates[i]
	t.coordinates = append(t.coordinates[:i], t.coordinates[i+1:]...)
	return removed, nil
}
