// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/aef/lib/config"
)

// Printer writes the per-member progress records of encrypt and
// decrypt: "Add: photos/", "Write: photos/cat.jpg". Labels and
// directory paths are colored when the color mode allows it.
type Printer struct {
	writer    io.Writer
	label     lipgloss.Style
	directory lipgloss.Style
	warning   lipgloss.Style
}

// NewPrinter creates a Printer writing to w. color is one of the
// output.color values: in [config.ColorAuto] mode the color profile is
// detected from w, [config.ColorAlways] forces 256 colors, and
// [config.ColorNever] disables styling.
func NewPrinter(w io.Writer, color string) *Printer {
	renderer := lipgloss.NewRenderer(w)
	switch color {
	case config.ColorAlways:
		renderer.SetColorProfile(termenv.ANSI256)
	case config.ColorNever:
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Printer{
		writer:    w,
		label:     renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		directory: renderer.NewStyle().Foreground(lipgloss.Color("4")),
		warning:   renderer.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// Record prints one "Label: path" line. Directories get a trailing
// slash.
func (p *Printer) Record(label, path string, isDirectory bool) {
	if isDirectory {
		path = p.directory.Render(path + "/")
	}
	fmt.Fprintf(p.writer, "%s %s\n", p.label.Render(label+":"), path)
}

// Skip prints a "Skip: path (reason)" line for a member that was not
// processed.
func (p *Printer) Skip(path, reason string) {
	fmt.Fprintf(p.writer, "%s %s (%s)\n", p.warning.Render("Skip:"), path, reason)
}

// WriteJSON marshals value as indented JSON to w.
func WriteJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
