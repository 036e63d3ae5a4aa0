package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/wricardo/route-plotter/route/engine"
)

var visitedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)

// colorRenderer returns r with its marker wrapped in the visited-cell style.
// The terminal profile decides whether escape codes are actually emitted.
func colorRenderer(r engine.Renderer) engine.Renderer {
	marker := r.Marker
	if marker == "" {
		marker = engine.DefaultMarker
	}
	return engine.Renderer{Marker: visitedStyle.Render(marker)}
}
