package engine

import (
	"strconv"
	"strings"
)

const (
	cellWidth = 3
	emptyCell = " "
)

// Renderer draws a tracker's route as a text grid
type Renderer struct {
	// Marker is written into every visited cell. Empty means DefaultMarker.
	Marker string
}

// Render draws t with the default marker
func Render(t *Tracker) string {
	return Renderer{}.Render(t)
}

// Render returns the grid for t. Row 1 is printed last (bottom) and column 1
// first (left), with row labels on the left and column labels underneath:
//
//	   :   :   :   :
//	---:---:---:---:---
//	  2: x :   :   :
//	---:---:---:---:---
//	  1: x : x :   :
//	---:---:---:---:---
//	   : 1 : 2 : 3 :
func (r Renderer) Render(t *Tracker) string {
	marker := r.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	rows, cols := t.Rows(), t.Cols()

	matrix := make([][]string, rows)
	for y := range matrix {
		matrix[y] = make([]string, cols)
		for x := range matrix[y] {
			matrix[y][x] = emptyCell
		}
	}
	for _, c := range t.coordinates {
		matrix[c.Y-1][c.X-1] = marker
	}

	rowSep := strings.Repeat("---:", cols+1) + "---"

	lines := make([]string, 0, 2*rows+3)
	lines = append(lines, strings.Repeat("   :", cols+1)+"   ", rowSep)

	for y := rows - 1; y >= 0; y-- {
		lines = append(lines, padLeft(strconv.Itoa(y+1), cellWidth)+": "+strings.Join(matrix[y], " : ")+" :")
		lines = append(lines, rowSep)
	}

	labels := make([]string, cols)
	for x := range labels {
		labels[x] = center(strconv.Itoa(x+1), cellWidth)
	}
	lines = append(lines, "   :"+strings.Join(labels, ":")+":")

	return strings.Join(lines, "\n")
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// center pads s to width, putting any odd space on the right
func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
