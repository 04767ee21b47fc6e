// Package render turns catalog records into display output. The Renderer
// interface keeps the filter and controller code free of any concrete UI.
package render

import (
	"io"

	"boardgame-catalog/internal/catalog"
)

// EmptyMessage is shown in place of the list when nothing matches.
const EmptyMessage = "No games match your filters."

// DescriptionLimit is the number of characters a card shows of a description.
const DescriptionLimit = 140

// Renderer produces the list, featured and detail views.
type Renderer interface {
	// RenderList writes the list view contents. An empty list writes a
	// single empty-state message.
	RenderList(w io.Writer, records []catalog.GameRecord) error
	// RenderFeatured writes the featured slot. A nil record writes an empty slot.
	RenderFeatured(w io.Writer, record *catalog.GameRecord) error
	// RenderDetail writes the full detail view of one record.
	RenderDetail(w io.Writer, record catalog.GameRecord) error
}

// Truncate shortens s to at most n characters, ending with an ellipsis when
// anything was cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
