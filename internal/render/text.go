package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"boardgame-catalog/internal/catalog"
)

// Text renders plain, tab-aligned output for terminals.
type Text struct {
	badge string
}

var _ Renderer = (*Text)(nil)

func NewText(badge string) *Text {
	return &Text{badge: badge}
}

func (t *Text) RenderList(w io.Writer, records []catalog.GameRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tGENRE\tPLAYERS\tPLAYTIME\tRATING")
	for _, rec := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d-%d\t%s\t%s\n",
			rec.ID, rec.Title, dash(rec.Genre),
			rec.Players.Min, rec.Players.Max,
			playtime(rec), FormatRating(rec.Rating))
	}
	return tw.Flush()
}

func (t *Text) RenderFeatured(w io.Writer, record *catalog.GameRecord) error {
	if record == nil {
		return nil
	}

	label := "Featured"
	if t.badge != "" {
		label = t.badge
	}
	shelf := ""
	if record.Shelf != "" {
		shelf = " (" + record.Shelf + ")"
	}
	_, err := fmt.Fprintf(w, "%s: %s %s%s\n", label, record.Title, FormatRating(record.Rating), shelf)
	return err
}

func (t *Text) RenderDetail(w io.Writer, record catalog.GameRecord) error {
	text := record.Rules
	if text == "" {
		text = record.Description
	}

	_, err := fmt.Fprintf(w, "%s\n\nPlayers:    %d - %d\nPlaytime:   %d minutes\nRating:     %s\nShelf:      %s\nDifficulty: %s\nGenre:      %s\n\n%s\n",
		record.Title,
		record.Players.Min, record.Players.Max,
		record.Playtime,
		FormatRating(record.Rating),
		dash(record.Shelf), dash(record.Difficulty), dash(record.Genre),
		text)
	return err
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func playtime(rec catalog.GameRecord) string {
	if !rec.PlaytimeKnown {
		return "-"
	}
	return fmt.Sprintf("%dm", rec.Playtime)
}
