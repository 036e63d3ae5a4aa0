package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/wricardo/route-plotter/route/engine"
)

var (
	ErrRouteNotFound  = errors.New("route file not found")
	ErrMalformedStart = errors.New("initial coordinate values could not be parsed")
	ErrNotContiguous  = errors.New("route is not a sequence of unit moves")
)

// Options controls the grid a route is loaded onto
type Options struct {
	Rows   int
	Cols   int
	Logger *log.Logger
}

// SkippedToken records a move line that was not a valid direction
type SkippedToken struct {
	Line  int    `json:"line"`
	Token string `json:"token"`
}

// Result is a successfully loaded route
type Result struct {
	Tracker *engine.Tracker
	Moves   int
	Skipped []SkippedToken
}

// LoadFile opens path and parses it as a route description
func LoadFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
		}
		return nil, fmt.Errorf("failed to open route file: %w", err)
	}
	defer f.Close()

	result, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return result, nil
}

// Parse reads a route description from r
func Parse(r io.Reader, opts Options) (*Result, error) {
	rows, cols := opts.Rows, opts.Cols
	if rows == 0 {
		rows = engine.DefaultRows
	}
	if cols == 0 {
		cols = engine.DefaultCols
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0

	readInt := func(axis string) (int, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, fmt.Errorf("failed to read route: %w", err)
			}
			return 0, fmt.Errorf("%w: line %d: missing %s coordinate", ErrMalformedStart, lineNo+1, axis)
		}
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		v, err := strconv.Atoi(text)
		if err != nil {
			return 0, fmt.Errorf("%w: line %d: %s coordinate %q is not an integer", ErrMalformedStart, lineNo, axis, text)
		}
		return v, nil
	}

	x, err := readInt("x")
	if err != nil {
		return nil, err
	}
	y, err := readInt("y")
	if err != nil {
		return nil, err
	}

	tracker, err := engine.NewTracker(rows, cols, engine.Coordinate{X: x, Y: y})
	if err != nil {
		return nil, err
	}

	result := &Result{Tracker: tracker}

	for scanner.Scan() {
		lineNo++
		token := strings.TrimSpace(scanner.Text())
		if token == "" {
			continue
		}

		if _, err := tracker.Move(token); err != nil {
			if errors.Is(err, engine.ErrInvalidDirection) {
				logger.Printf("Provided direction %q on line %d is invalid, skipping", token, lineNo)
				result.Skipped = append(result.Skipped, SkippedToken{Line: lineNo, Token: token})
				continue
			}
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		result.Moves++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read route: %w", err)
	}

	return result, nil
}

// Format writes a tracker back out as a route description. Every pair of
// consecutive coordinates must be one unit step apart.
func Format(t *engine.Tracker) (string, error) {
	coords := t.Coordinates()

	var b strings.Builder
	fmt.Fprintf(&b, "%d\n%d\n", coords[0].X, coords[0].Y)

	for i := 1; i < len(coords); i++ {
		d, ok := directionBetween(coords[i-1], coords[i])
		if !ok {
			return "", fmt.Errorf("%w: %s -> %s at index %d", ErrNotContiguous, coords[i-1], coords[i], i)
		}
		b.WriteString(string(d))
		b.WriteByte('\n')
	}

	return b.String(), nil
}

func directionBetween(from, to engine.Coordinate) (engine.Direction, bool) {
	for _, d := range engine.Directions() {
		delta, _ := engine.Delta(d)
		if from.Add(delta) == to {
			return d, true
		}
	}
	return "", false
}
