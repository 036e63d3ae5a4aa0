package engine

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// DefaultProfile returns the 12x12 grid used when no profile is configured
func DefaultProfile() *Profile {
	return &Profile{
		Name:        "standard",
		Description: "Standard 12x12 drone navigation grid",
		Rows:        DefaultRows,
		Cols:        DefaultCols,
		Marker:      DefaultMarker,
	}
}

// ValidateProfile checks a profile for usable grid settings
func ValidateProfile(p *Profile) error {
	if p == nil {
		return fmt.Errorf("profile validation: profile is nil")
	}
	if p.Name == "" {
		return fmt.Errorf("profile validation: name is required")
	}

	if p.Rows < MinGridDimension || p.Rows > MaxGridDimension {
		return fmt.Errorf("profile validation: rows must be between %d and %d, got %d", MinGridDimension, MaxGridDimension, p.Rows)
	}
	if p.Cols < MinGridDimension || p.Cols > MaxGridDimension {
		return fmt.Errorf("profile validation: cols must be between %d and %d, got %d", MinGridDimension, MaxGridDimension, p.Cols)
	}

	if p.Marker != "" {
		if utf8.RuneCountInString(p.Marker) != 1 {
			return fmt.Errorf("profile validation: marker must be a single character, got %q", p.Marker)
		}
		r, _ := utf8.DecodeRuneInString(p.Marker)
		if !unicode.IsPrint(r) || unicode.IsSpace(r) || unicode.IsDigit(r) || r == ':' || r == '-' {
			return fmt.Errorf("profile validation: marker %q would be confused with the grid lines", p.Marker)
		}
	}

	return nil
}

// NewTracker creates a tracker sized to the profile
func (p *Profile) NewTracker(start Coordinate) (*Tracker, error) {
	return NewTracker(p.Rows, p.Cols, start)
}

// Renderer returns a renderer using the profile's marker
func (p *Profile) Renderer() Renderer {
	return Renderer{Marker: p.Marker}
}
