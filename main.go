// Command routeplotter plots drone routes onto a text grid.
//
// It supports four commands:
//  1. "plot" (default) – prompts for route files and prints each route's grid and coordinates
//  2. "render" – prints the grid for every route file given on the command line
//  3. "serve" – runs the HTTP server exposing REST API, WebSocket, and an /mcp endpoint
//  4. "mcp" – runs an MCP stdio server backed by an internal HTTP API
//
// Global flags pick the grid profile and override its size and marker.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Route Plotter"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree. Flags on the root command apply to every subcommand.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "routeplotter",
		Usage:   "plot drone routes onto a grid",
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "rows",
				Usage:   "grid rows, overriding the profile",
				Sources: cli.EnvVars("ROUTE_ROWS"),
			},
			&cli.IntFlag{
				Name:    "cols",
				Usage:   "grid columns, overriding the profile",
				Sources: cli.EnvVars("ROUTE_COLS"),
			},
			&cli.StringFlag{
				Name:    "profile",
				Value:   "standard",
				Usage:   "grid profile name",
				Sources: cli.EnvVars("ROUTE_PROFILE"),
			},
			&cli.StringFlag{
				Name:    "profile-dir",
				Value:   "profiles",
				Usage:   "directory containing grid profiles; the built-in standard profile is used when it is missing",
				Sources: cli.EnvVars("PROFILE_DIR"),
			},
			&cli.StringFlag{
				Name:  "marker",
				Usage: "character drawn in visited cells, overriding the profile",
			},
			&cli.BoolFlag{
				Name:  "color",
				Usage: "highlight visited cells",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: plotAction,
		Commands: []*cli.Command{
			{
				Name:   "plot",
				Usage:  "prompt for route files and plot each one",
				Action: plotAction,
			},
			{
				Name:      "render",
				Usage:     "plot the given route files",
				ArgsUsage: "FILE...",
				Action:    renderAction,
			},
			serveCommand(),
			mcpCommand(),
		},
	}
}
