package engine

import "errors"

// Direction is a compass move token
type Direction string

const (
	North Direction = "N"
	South Direction = "S"
	East  Direction = "E"
	West  Direction = "W"

	// Defaults used when no profile overrides them
	DefaultRows   = 12
	DefaultCols   = 12
	DefaultMarker = "x"

	// Validation constants
	MinGridDimension = 1
	MaxGridDimension = 99
	MaxBulkMoves     = 500
)

var (
	ErrInvalidDimensions = errors.New("rows and cols must be greater than 0")
	ErrOutOfGrid         = errors.New("coordinate is outside of the grid")
	ErrInvalidDirection  = errors.New("invalid direction")
	ErrIndexOutOfRange   = errors.New("coordinate index out of range")
	ErrLastCoordinate    = errors.New("cannot remove the only coordinate in a route")
)

// deltas maps each direction to its unit step. Read-only after init.
var deltas = map[Direction]Coordinate{
	North: {X: 0, Y: 1},
	South: {X: 0, Y: -1},
	East:  {X: 1, Y: 0},
	West:  {X: -1, Y: 0},
}

// Summary holds aggregate statistics about a route
type Summary struct {
	Steps        int        `json:"steps"`
	UniqueCells  int        `json:"unique_cells"`
	Revisits     int        `json:"revisits"`
	Displacement int        `json:"displacement"`
	Start        Coordinate `json:"start"`
	Current      Coordinate `json:"current"`
	Min          Coordinate `json:"min"`
	Max          Coordinate `json:"max"`
}

// Profile describes the grid a route is tracked on
type Profile struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Rows        int    `json:"rows" yaml:"rows"`
	Cols        int    `json:"cols" yaml:"cols"`
	Marker      string `json:"marker,omitempty" yaml:"marker,omitempty"`
}
