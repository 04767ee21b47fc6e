package catalog

import (
	"cmp"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// GenreAll disables the genre filter.
const GenreAll = "all"

// SortKey selects the ordering of a filtered result. Only one is active at a time.
type SortKey string

const (
	SortNone         SortKey = "none"
	SortTitle        SortKey = "title"
	SortPlaytimeDesc SortKey = "playtime-desc"
	SortRatingDesc   SortKey = "rating-desc"
)

// SortKeys lists the selectable orderings in display order.
var SortKeys = []SortKey{SortNone, SortTitle, SortPlaytimeDesc, SortRatingDesc}

// ParseSortKey accepts the canonical keys plus the older selector values
// "year" and "rating". Anything else means no sorting.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SortTitle):
		return SortTitle
	case string(SortPlaytimeDesc), "year", "playtime":
		return SortPlaytimeDesc
	case string(SortRatingDesc), "rating":
		return SortRatingDesc
	default:
		return SortNone
	}
}

// Range is an inclusive numeric interval. To may be +Inf.
type Range struct {
	From float64
	To   float64
}

// Unbounded returns the range that matches everything.
func Unbounded() Range {
	return Range{From: 0, To: math.Inf(1)}
}

// ParseRange builds a range from raw input values. A blank or non-numeric
// lower bound becomes 0; a blank, non-numeric or zero upper bound becomes +Inf.
func ParseRange(from, to string) Range {
	return Range{From: parseBound(from), To: parseBound(to)}.normalize()
}

func parseBound(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func (r Range) normalize() Range {
	if math.IsNaN(r.From) || math.IsInf(r.From, 0) || r.From < 0 {
		r.From = 0
	}
	if math.IsNaN(r.To) || r.To <= 0 {
		r.To = math.Inf(1)
	}
	return r
}

// Active reports whether the range restricts anything.
func (r Range) Active() bool {
	return r.From > 0 || !math.IsInf(r.To, 1)
}

func (r Range) MarshalJSON() ([]byte, error) {
	out := struct {
		From float64  `json:"from"`
		To   *float64 `json:"to"`
	}{From: r.From}
	if !math.IsInf(r.To, 1) {
		out.To = &r.To
	}
	return json.Marshal(out)
}

// Criteria is the full set of filter inputs. The zero value, like
// DefaultCriteria, matches every record and keeps input order.
type Criteria struct {
	Search   string  `json:"search"`
	Genre    string  `json:"genre"`
	Players  Range   `json:"players"`
	Playtime Range   `json:"playtime"`
	Sort     SortKey `json:"sort"`
}

func DefaultCriteria() Criteria {
	return Criteria{
		Genre:    GenreAll,
		Players:  Unbounded(),
		Playtime: Unbounded(),
		Sort:     SortNone,
	}
}

// IsDefault reports whether c filters and sorts nothing.
func (c Criteria) IsDefault() bool {
	c = c.normalize()
	return c.Search == "" && c.Genre == GenreAll && !c.Players.Active() &&
		!c.Playtime.Active() && c.Sort == SortNone
}

// Normalized returns c with blank genre and sort replaced by their defaults
// and both ranges clamped the way ParseRange clamps them.
func (c Criteria) Normalized() Criteria {
	return c.normalize()
}

func (c Criteria) normalize() Criteria {
	if c.Genre == "" {
		c.Genre = GenreAll
	}
	if c.Sort == "" {
		c.Sort = SortNone
	}
	c.Players = c.Players.normalize()
	c.Playtime = c.Playtime.normalize()
	return c
}

// Engine applies criteria to record sets. Title sorting collates for the
// engine's language.
type Engine struct {
	lang language.Tag
}

func NewEngine(lang language.Tag) *Engine {
	return &Engine{lang: lang}
}

// NewEngineForLanguage parses a BCP 47 tag, falling back to the root
// collation when the tag is invalid.
func NewEngineForLanguage(tag string) *Engine {
	lang, err := language.Parse(tag)
	if err != nil {
		lang = language.Und
	}
	return NewEngine(lang)
}

var defaultEngine = NewEngine(language.Danish)

// Apply filters and sorts records with the default engine.
func Apply(records []GameRecord, c Criteria) []GameRecord {
	return defaultEngine.Apply(records, c)
}

// Apply returns the records matching c, sorted by c.Sort. The input slice is
// never modified and the result is never nil.
func (e *Engine) Apply(records []GameRecord, c Criteria) []GameRecord {
	c = c.normalize()

	// Casers keep internal state, so each call gets its own.
	fold := cases.Fold()
	search := fold.String(c.Search)

	out := make([]GameRecord, 0, len(records))
	for _, rec := range records {
		if search != "" &&
			!strings.Contains(fold.String(rec.Title), search) &&
			!strings.Contains(fold.String(rec.Description), search) {
			continue
		}
		if c.Genre != GenreAll && rec.Genre != c.Genre {
			continue
		}
		if c.Players.Active() && !overlaps(rec.Players, c.Players) {
			continue
		}
		if c.Playtime.Active() && !contains(rec, c.Playtime) {
			continue
		}
		out = append(out, rec)
	}

	e.sort(out, c.Sort)
	return out
}

// overlaps is true when any player count in p falls inside r.
func overlaps(p PlayerRange, r Range) bool {
	return float64(p.Max) >= r.From && float64(p.Min) <= r.To
}

// contains is true when the record's playtime lies within r.
func contains(rec GameRecord, r Range) bool {
	if !rec.PlaytimeKnown {
		return false
	}
	pt := float64(rec.Playtime)
	return pt >= r.From && pt <= r.To
}

func (e *Engine) sort(records []GameRecord, key SortKey) {
	switch key {
	case SortTitle:
		col := collate.New(e.lang)
		slices.SortStableFunc(records, func(a, b GameRecord) int {
			return col.CompareString(a.Title, b.Title)
		})
	case SortPlaytimeDesc:
		slices.SortStableFunc(records, func(a, b GameRecord) int {
			return cmp.Compare(b.Playtime, a.Playtime)
		})
	case SortRatingDesc:
		slices.SortStableFunc(records, func(a, b GameRecord) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	}
}
