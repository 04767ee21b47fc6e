// Package browse connects the catalog store, the filter engine and a
// renderer. It maps UI state (query parameters, websocket messages, CLI
// flags) onto filter criteria and serves the result over HTTP.
package browse

import (
	"io"
	"net/url"

	"golang.org/x/text/language"

	"boardgame-catalog/internal/catalog"
	"boardgame-catalog/internal/render"
)

// Query parameter names shared by the page form, the fragment endpoints and
// the websocket messages.
const (
	ParamSearch       = "q"
	ParamGenre        = "genre"
	ParamSort         = "sort"
	ParamPlayersFrom  = "players_from"
	ParamPlayersTo    = "players_to"
	ParamPlaytimeFrom = "playtime_from"
	ParamPlaytimeTo   = "playtime_to"
)

type Controller struct {
	store      *catalog.Store
	engine     *catalog.Engine
	renderer   render.Renderer
	featuredID int
}

func NewController(store *catalog.Store, engine *catalog.Engine, renderer render.Renderer, featuredID int) *Controller {
	if engine == nil {
		engine = catalog.NewEngine(language.Danish)
	}
	return &Controller{
		store:      store,
		engine:     engine,
		renderer:   renderer,
		featuredID: featuredID,
	}
}

// CriteriaFromValues reads criteria from form or query values. Missing keys
// take their defaults.
func CriteriaFromValues(v url.Values) catalog.Criteria {
	c := catalog.DefaultCriteria()
	c.Search = v.Get(ParamSearch)
	if g := v.Get(ParamGenre); g != "" {
		c.Genre = g
	}
	c.Sort = catalog.ParseSortKey(v.Get(ParamSort))
	c.Players = catalog.ParseRange(v.Get(ParamPlayersFrom), v.Get(ParamPlayersTo))
	c.Playtime = catalog.ParseRange(v.Get(ParamPlaytimeFrom), v.Get(ParamPlaytimeTo))
	return c
}

// Filter runs the full record set through the engine.
func (c *Controller) Filter(criteria catalog.Criteria) []catalog.GameRecord {
	return c.engine.Apply(c.store.Records(), criteria)
}

// Update renders the list for criteria and returns how many records matched.
func (c *Controller) Update(w io.Writer, criteria catalog.Criteria) (int, error) {
	records := c.Filter(criteria)
	if err := c.renderer.RenderList(w, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Reset renders the unfiltered list and returns the default criteria the
// inputs should be restored to.
func (c *Controller) Reset(w io.Writer) (catalog.Criteria, error) {
	criteria := catalog.DefaultCriteria()
	if _, err := c.Update(w, criteria); err != nil {
		return criteria, err
	}
	return criteria, nil
}

// Featured returns the configured featured record, falling back to the
// first record of the catalog.
func (c *Controller) Featured() *catalog.GameRecord {
	rec, ok := c.store.Featured(c.featuredID)
	if !ok {
		return nil
	}
	return &rec
}

// RenderFeatured writes the featured slot.
func (c *Controller) RenderFeatured(w io.Writer) error {
	return c.renderer.RenderFeatured(w, c.Featured())
}

// Detail renders the record with the given id. It reports false when no
// such record exists, in which case nothing is written.
func (c *Controller) Detail(w io.Writer, id int) (bool, error) {
	rec, ok := c.store.Find(id)
	if !ok {
		return false, nil
	}
	return true, c.renderer.RenderDetail(w, rec)
}

// GenreOptions returns the genre select values: "all" followed by the
// distinct genres of the catalog.
func (c *Controller) GenreOptions() []string {
	return append([]string{catalog.GenreAll}, c.store.Genres()...)
}

func (c *Controller) Genres() []string {
	return c.store.Genres()
}

func (c *Controller) Len() int {
	return c.store.Len()
}

func (c *Controller) Loaded() bool {
	return c.store.Loaded()
}
