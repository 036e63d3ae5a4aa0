// Command validate checks route description files before they are plotted.
// For every *.txt file in the routes directory it checks:
//   - the starting coordinate lines parse as integers
//   - the starting coordinate lies on the grid
//   - no move leaves the grid
//
// Unknown move tokens do not fail a file; they are listed as warnings.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/route-plotter/route/engine"
	"github.com/wricardo/route-plotter/route/loader"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateRoute loads one route file onto a rows x cols grid
func validateRoute(filePath string, rows, cols int) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	loaded, err := loader.LoadFile(filePath, loader.Options{
		Rows:   rows,
		Cols:   cols,
		Logger: log.New(io.Discard, "", 0),
	})
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	summary := engine.Summarize(loaded.Tracker)
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", loaded.Tracker.Rows(), loaded.Tracker.Cols()))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Start: %s", summary.Start))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ End: %s", summary.Current))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Moves: %d", loaded.Moves))
	for _, skipped := range loaded.Skipped {
		result.Errors = append(result.Errors, fmt.Sprintf("⚠ Line %d: invalid direction %q skipped", skipped.Line, skipped.Token))
	}

	return result
}

// validateDir validates every *.txt file in dir and writes a report to w.
// It returns false if any file is invalid.
func validateDir(w io.Writer, dir string, rows, cols int) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return false, fmt.Errorf("error finding route files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no route files found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateRoute(file, rows, cols)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All routes are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some routes have errors")
	}
	return allValid, nil
}

func main() {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "validate route description files",
		ArgsUsage: "[DIR]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "rows", Value: engine.DefaultRows, Usage: "grid rows", Sources: cli.EnvVars("ROUTE_ROWS")},
			&cli.IntFlag{Name: "cols", Value: engine.DefaultCols, Usage: "grid columns", Sources: cli.EnvVars("ROUTE_COLS")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := "../routes"
			if cmd.Args().Present() {
				dir = cmd.Args().First()
			}

			ok, err := validateDir(cmd.Writer, dir, cmd.Int("rows"), cmd.Int("cols"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if !ok {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}
