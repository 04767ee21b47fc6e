package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"

	"boardgame-catalog/internal/catalog"
)

//go:embed templates/*.html
var templateFS embed.FS

var sortLabels = map[catalog.SortKey]string{
	catalog.SortNone:         "Sort: none",
	catalog.SortTitle:        "Title (A-Å)",
	catalog.SortPlaytimeDesc: "Playtime (longest first)",
	catalog.SortRatingDesc:   "Rating (highest first)",
}

type HTMLOptions struct {
	// Badge is the corner label of the featured card. Empty hides it.
	Badge string
}

// HTML renders catalog views with html/template, which escapes every text
// field for the context it lands in.
type HTML struct {
	tmpl  *template.Template
	badge string
}

var _ Renderer = (*HTML)(nil)

func NewHTML(opts HTMLOptions) (*HTML, error) {
	funcs := template.FuncMap{
		"truncate":     func(s string) string { return Truncate(s, DescriptionLimit) },
		"rating":       FormatRating,
		"emptyMessage": func() string { return EmptyMessage },
	}

	tmpl, err := template.New("catalog").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &HTML{tmpl: tmpl, badge: opts.Badge}, nil
}

type featuredView struct {
	Record *catalog.GameRecord
	Badge  string
}

func (h *HTML) RenderList(w io.Writer, records []catalog.GameRecord) error {
	return h.tmpl.ExecuteTemplate(w, "list", records)
}

func (h *HTML) RenderFeatured(w io.Writer, record *catalog.GameRecord) error {
	return h.tmpl.ExecuteTemplate(w, "featured", featuredView{Record: record, Badge: h.badge})
}

func (h *HTML) RenderDetail(w io.Writer, record catalog.GameRecord) error {
	return h.tmpl.ExecuteTemplate(w, "detail", record)
}

// Page is everything the full catalog page shows.
type Page struct {
	Criteria catalog.Criteria
	Genres   []string
	Records  []catalog.GameRecord
	Featured *catalog.GameRecord
}

type formState struct {
	Search       string
	Genre        string
	PlayersFrom  string
	PlayersTo    string
	PlaytimeFrom string
	PlaytimeTo   string
	RangesActive bool
}

type sortOption struct {
	Value    catalog.SortKey
	Label    string
	Selected bool
}

type pageView struct {
	Form        formState
	Genres      []string
	SortOptions []sortOption
	Records     []catalog.GameRecord
	Featured    featuredView
}

// RenderPage writes the complete catalog page: featured slot, filter form
// reflecting the criteria, and the list.
func (h *HTML) RenderPage(w io.Writer, p Page) error {
	c := p.Criteria.Normalized()

	view := pageView{
		Form: formState{
			Search:       c.Search,
			Genre:        c.Genre,
			PlayersFrom:  formatLower(c.Players.From),
			PlayersTo:    formatUpper(c.Players.To),
			PlaytimeFrom: formatLower(c.Playtime.From),
			PlaytimeTo:   formatUpper(c.Playtime.To),
			RangesActive: c.Players.Active() || c.Playtime.Active(),
		},
		Genres:   p.Genres,
		Records:  p.Records,
		Featured: featuredView{Record: p.Featured, Badge: h.badge},
	}
	for _, key := range catalog.SortKeys {
		view.SortOptions = append(view.SortOptions, sortOption{
			Value:    key,
			Label:    sortLabels[key],
			Selected: key == c.Sort,
		})
	}

	return h.tmpl.ExecuteTemplate(w, "page", view)
}

// FormatRating prints a rating without trailing zeros.
func FormatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func formatLower(f float64) string {
	if f <= 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatUpper(f float64) string {
	if f <= 0 || math.IsInf(f, 1) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
