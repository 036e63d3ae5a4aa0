// Command analyze prints quick, human-readable statistics about route
// description files: length, unique cells, revisits, displacement, the
// bounding box, and the most visited cells.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/route-plotter/route/engine"
	"github.com/wricardo/route-plotter/route/loader"
)

// maxHotspots limits how many revisited cells are listed per route
const maxHotspots = 5

// hotspot is a cell visited more than once
type hotspot struct {
	Cell   engine.Coordinate
	Visits int
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "print statistics for route description files",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "rows", Value: engine.DefaultRows, Usage: "grid rows", Sources: cli.EnvVars("ROUTE_ROWS")},
			&cli.IntFlag{Name: "cols", Value: engine.DefaultCols, Usage: "grid columns", Sources: cli.EnvVars("ROUTE_COLS")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				return cli.Exit("analyze: at least one route file is required", 1)
			}
			for _, file := range files {
				fmt.Fprintf(cmd.Writer, "\n=== Analyzing %s ===\n", file)
				analyzeRoute(cmd.Writer, file, cmd.Int("rows"), cmd.Int("cols"))
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}

func analyzeRoute(w io.Writer, path string, rows, cols int) {
	loaded, err := loader.LoadFile(path, loader.Options{
		Rows:   rows,
		Cols:   cols,
		Logger: log.New(io.Discard, "", 0),
	})
	if err != nil {
		fmt.Fprintf(w, "Error loading route: %v\n", err)
		return
	}

	s := engine.Summarize(loaded.Tracker)
	fmt.Fprintf(w, "Grid: %d x %d\n", loaded.Tracker.Rows(), loaded.Tracker.Cols())
	fmt.Fprintf(w, "Start: %s\n", s.Start)
	fmt.Fprintf(w, "End: %s\n", s.Current)
	fmt.Fprintf(w, "Steps: %d\n", s.Steps)
	fmt.Fprintf(w, "Unique Cells: %d\n", s.UniqueCells)
	fmt.Fprintf(w, "Revisits: %d\n", s.Revisits)
	fmt.Fprintf(w, "Displacement: %d\n", s.Displacement)
	fmt.Fprintf(w, "Bounding Box: %s - %s\n", s.Min, s.Max)

	if len(loaded.Skipped) > 0 {
		fmt.Fprintf(w, "⚠️  %d invalid directions skipped\n", len(loaded.Skipped))
	}

	spots := hotspots(engine.CountVisits(loaded.Tracker))
	if len(spots) == 0 {
		fmt.Fprintf(w, "✅ No cell is visited more than once\n")
		return
	}

	fmt.Fprintf(w, "Most visited cells:\n")
	for i, h := range spots {
		if i == maxHotspots {
			fmt.Fprintf(w, "   ... and %d more\n", len(spots)-maxHotspots)
			break
		}
		fmt.Fprintf(w, "   %s visited %d times\n", h.Cell, h.Visits)
	}
}

// hotspots returns cells visited more than once, most visited first
func hotspots(visits map[engine.Coordinate]int) []hotspot {
	var spots []hotspot
	for cell, n := range visits {
		if n > 1 {
			spots = append(spots, hotspot{Cell: cell, Visits: n})
		}
	}

	sort.Slice(spots, func(i, j int) bool {
		if spots[i].Visits != spots[j].Visits {
			return spots[i].Visits > spots[j].Visits
		}
		if spots[i].Cell.Y != spots[j].Cell.Y {
			return spots[i].Cell.Y < spots[j].Cell.Y
		}
		return spots[i].Cell.X < spots[j].Cell.X
	})
	return spots
}
