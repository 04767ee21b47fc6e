package browse

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"boardgame-catalog/internal/catalog"
	"boardgame-catalog/internal/render"
)

// HeaderResultCount carries the number of matching records on list fragments.
const HeaderResultCount = "X-Result-Count"

// PageRenderer is a Renderer that can also produce the full catalog page.
type PageRenderer interface {
	render.Renderer
	RenderPage(w io.Writer, p render.Page) error
}

type Handler struct {
	ctrl     *Controller
	pages    PageRenderer
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(ctrl *Controller, pages PageRenderer, logger *slog.Logger) *Handler {
	return &Handler{
		ctrl:   ctrl,
		pages:  pages,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

type gamesResponse struct {
	Criteria catalog.Criteria     `json:"criteria"`
	Count    int                  `json:"count"`
	Games    []catalog.GameRecord `json:"games"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
	Loaded  bool   `json:"loaded"`
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	criteria := CriteriaFromValues(r.URL.Query())

	var buf bytes.Buffer
	err := h.pages.RenderPage(&buf, render.Page{
		Criteria: criteria,
		Genres:   h.ctrl.Genres(),
		Records:  h.ctrl.Filter(criteria),
		Featured: h.ctrl.Featured(),
	})
	if err != nil {
		h.logger.Error("failed to render page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeHTML(w, &buf)
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var buf bytes.Buffer
	n, err := h.ctrl.Update(&buf, CriteriaFromValues(r.URL.Query()))
	if err != nil {
		h.logger.Error("failed to render list", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set(HeaderResultCount, strconv.Itoa(n))
	writeHTML(w, &buf)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := strconv.Atoi(ps.ByName("id"))
	if err != nil {
		http.Error(w, "Game ID must be an integer", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	found, err := h.ctrl.Detail(&buf, id)
	if err != nil {
		h.logger.Error("failed to render detail", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	writeHTML(w, &buf)
}

// Reset sends the browser back to the page with every input at its default.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) APIGames(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	criteria := CriteriaFromValues(r.URL.Query())
	games := h.ctrl.Filter(criteria)

	writeJSON(w, gamesResponse{Criteria: criteria, Count: len(games), Games: games})
}

func (h *Handler) APIGenres(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, h.ctrl.GenreOptions())
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, healthResponse{Status: "ok", Records: h.ctrl.Len(), Loaded: h.ctrl.Loaded()})
}

func (h *Handler) Routes() *httprouter.Router {
	router := httprouter.New()

	router.GET("/", h.Index)
	router.GET("/games", h.ListGames)
	router.GET("/games/:id", h.GetGame)
	router.GET("/reset", h.Reset)
	router.GET("/api/games", h.APIGames)
	router.GET("/api/genres", h.APIGenres)
	router.GET("/ws", h.LiveFilter)
	router.GET("/healthz", h.Health)

	return router
}

func writeHTML(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
