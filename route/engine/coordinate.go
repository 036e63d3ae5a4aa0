package engine

import (
	"fmt"
	"strings"
)

// Coordinate is a point on the grid. Values are 1-indexed by convention but
// carry no bound of their own.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the component-wise sum of a and b
func Add(a, b Coordinate) Coordinate {
	return Coordinate{X: a.X + b.X, Y: a.Y + b.Y}
}

// Equal reports whether a and b refer to the same cell
func Equal(a, b Coordinate) bool {
	return a.X == b.X && a.Y == b.Y
}

// Add returns c shifted by o
func (c Coordinate) Add(o Coordinate) Coordinate {
	return Add(c, o)
}

// Equal reports whether c and o refer to the same cell
func (c Coordinate) Equal(o Coordinate) bool {
	return Equal(c, o)
}

// String formats the coordinate as "(x, y)"
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// InBounds reports whether c lies inside a rows x cols grid
func InBounds(c Coordinate, rows, cols int) bool {
	return c.X >= 1 && c.X <= cols && c.Y >= 1 && c.Y <= rows
}

// ParseDirection converts a move token into a Direction. Tokens are matched
// exactly after trimming surrounding whitespace.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.TrimSpace(s))
	if _, ok := deltas[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
	return d, nil
}

// Delta returns the unit step for d
func Delta(d Direction) (Coordinate, bool) {
	delta, ok := deltas[d]
	return delta, ok
}

// Directions lists the valid move tokens
func Directions() []Direction {
	return []Direction{North, South, East, West}
}
