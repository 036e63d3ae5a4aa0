package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/route-plotter/route/config"
	"github.com/wricardo/route-plotter/route/engine"
	"github.com/wricardo/route-plotter/route/loader"
)

const (
	plotPrompt  = "Enter the next route instructions file, or enter STOP to finish: "
	stopCommand = "STOP"
)

// plotter loads route files onto one grid profile and prints them
type plotter struct {
	profile *engine.Profile
	color   bool
	logger  *log.Logger
}

// newPlotter resolves the grid profile from the global flags
func newPlotter(cmd *cli.Command) (*plotter, error) {
	profile, err := resolveProfile(cmd.String("profile-dir"), cmd.String("profile"))
	if err != nil {
		return nil, err
	}

	// Flags override the profile without touching the cached copy
	p := *profile
	if cmd.IsSet("rows") {
		p.Rows = cmd.Int("rows")
	}
	if cmd.IsSet("cols") {
		p.Cols = cmd.Int("cols")
	}
	if cmd.IsSet("marker") {
		p.Marker = cmd.String("marker")
	}
	if err := engine.ValidateProfile(&p); err != nil {
		return nil, err
	}

	return &plotter{profile: &p, color: cmd.Bool("color"), logger: log.Default()}, nil
}

// resolveProfile loads name from dir. The built-in standard profile is used
// when the directory is missing or holds no profile of the default name.
func resolveProfile(dir, name string) (*engine.Profile, error) {
	manager, err := config.NewManager(dir)
	if err != nil {
		if name == "" || name == config.DefaultProfileName {
			return engine.DefaultProfile(), nil
		}
		return nil, err
	}

	if name == "" {
		return manager.GetDefault(), nil
	}

	profile, err := manager.LoadProfile(name)
	if err != nil {
		if errors.Is(err, config.ErrProfileNotFound) && name == config.DefaultProfileName {
			return engine.DefaultProfile(), nil
		}
		return nil, err
	}
	return profile, nil
}

// plotFile loads one route file and writes its grid followed by its coordinates
func (p *plotter) plotFile(w io.Writer, path string) error {
	result, err := loader.LoadFile(path, loader.Options{
		Rows:   p.profile.Rows,
		Cols:   p.profile.Cols,
		Logger: p.logger,
	})
	if err != nil {
		return err
	}

	renderer := p.profile.Renderer()
	if p.color {
		renderer = colorRenderer(renderer)
	}

	fmt.Fprintln(w, renderer.Render(result.Tracker))
	for _, c := range result.Tracker.Coordinates() {
		fmt.Fprintln(w, c.String())
	}
	return nil
}

// run prompts for file names until STOP or end of input. Failures are
// reported and the loop carries on.
func (p *plotter) run(r io.Reader, w io.Writer) {
	scanner := bufio.NewScanner(r)

	for {
		fmt.Fprint(w, plotPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == stopCommand {
			return
		}

		if err := p.plotFile(w, input); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	}
}

func plotAction(ctx context.Context, cmd *cli.Command) error {
	p, err := newPlotter(cmd)
	if err != nil {
		return err
	}

	p.run(cmd.Root().Reader, cmd.Root().Writer)
	return nil
}

func renderAction(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return cli.Exit("render: at least one route file is required", 1)
	}

	p, err := newPlotter(cmd)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	failed := 0
	for _, file := range files {
		if err := p.plotFile(out, file); err != nil {
			fmt.Fprintf(cmd.Root().ErrWriter, "Error: %v\n", err)
			failed++
		}
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d route files failed", failed, len(files)), 1)
	}
	return nil
}
