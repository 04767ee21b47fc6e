package browse

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"boardgame-catalog/internal/catalog"
	"boardgame-catalog/internal/logging"
	"boardgame-catalog/internal/render"
)

func newTestServer(t *testing.T, records []catalog.GameRecord) *httptest.Server {
	t.Helper()

	html, err := render.NewHTML(render.HTMLOptions{Badge: "Game of the week"})
	require.NoError(t, err)

	logger := logging.Discard()
	store := catalog.NewStaticStore(logger, records)
	ctrl := NewController(store, catalog.NewEngine(language.Danish), html, 17)
	h := NewHandler(ctrl, html, logger)

	srv := httptest.NewServer(RequestLogger(logger, h.Routes()))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func document(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t, testRecords())

	resp := get(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))

	doc := document(t, resp)
	assert.Equal(t, 3, doc.Find("#game-list .game-card").Length())
	assert.Equal(t, "17", doc.Find("#featured .featured-game").AttrOr("data-game-id", ""))
	assert.Equal(t, "Game of the week", doc.Find("#featured .corner-badge").Text())

	var genres []string
	doc.Find("#genre-select option").Each(func(_ int, s *goquery.Selection) {
		genres = append(genres, s.AttrOr("value", ""))
	})
	assert.Equal(t, []string{"all", "Abstract", "Party", "Strategy"}, genres)
}

func TestIndexWithQuery(t *testing.T) {
	srv := newTestServer(t, testRecords())

	doc := document(t, get(t, srv.URL+"/?genre=Party&sort=title&players_from=5"))
	cards := doc.Find("#game-list .game-card")
	require.Equal(t, 1, cards.Length())
	assert.Equal(t, "2", cards.AttrOr("data-game-id", ""))
	assert.Equal(t, "Party", doc.Find("#genre-select option[selected]").AttrOr("value", ""))
	assert.Equal(t, "5", doc.Find("#players-from").AttrOr("value", ""))
}

func TestListGames(t *testing.T) {
	tests := []struct {
		name  string
		query string
		count string
		ids   []string
	}{
		{"all", "", "3", []string{"1", "2", "17"}},
		{"search", "?q=CAT", "1", []string{"1"}},
		{"rating sort", "?sort=rating-desc", "3", []string{"2", "17", "1"}},
		{"playtime sort legacy", "?sort=year", "3", []string{"1", "17", "2"}},
		{"playtime containment", "?playtime_from=30&playtime_to=60", "1", []string{"17"}},
		{"no match", "?genre=Horror", "0", nil},
	}

	srv := newTestServer(t, testRecords())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, srv.URL+"/games"+tt.query)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.count, resp.Header.Get(HeaderResultCount))

			doc := document(t, resp)
			var ids []string
			doc.Find(".game-card").Each(func(_ int, s *goquery.Selection) {
				ids = append(ids, s.AttrOr("data-game-id", ""))
			})
			assert.Equal(t, tt.ids, ids)
			if tt.ids == nil {
				assert.Equal(t, 1, doc.Find(".no-results").Length())
			}
		})
	}
}

func TestGetGame(t *testing.T) {
	srv := newTestServer(t, testRecords())

	resp := get(t, srv.URL+"/games/17")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := document(t, resp)
	assert.Equal(t, 1, doc.Find("dialog#game-dialog[open]").Length())
	assert.Equal(t, "Azul", doc.Find("h2").Text())

	assert.Equal(t, http.StatusNotFound, get(t, srv.URL+"/games/99").StatusCode)
	assert.Equal(t, http.StatusBadRequest, get(t, srv.URL+"/games/azul").StatusCode)
}

func TestReset(t *testing.T) {
	srv := newTestServer(t, testRecords())

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Get(srv.URL + "/reset")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestAPIGames(t *testing.T) {
	srv := newTestServer(t, testRecords())

	resp := get(t, srv.URL+"/api/games?players_from=4&players_to=6")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Criteria struct {
			Genre   string `json:"genre"`
			Players struct {
				From float64  `json:"from"`
				To   *float64 `json:"to"`
			} `json:"players"`
			Playtime struct {
				To *float64 `json:"to"`
			} `json:"playtime"`
		} `json:"criteria"`
		Count int                  `json:"count"`
		Games []catalog.GameRecord `json:"games"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, 3, body.Count)
	assert.Len(t, body.Games, 3)
	assert.Equal(t, "all", body.Criteria.Genre)
	assert.Equal(t, 4.0, body.Criteria.Players.From)
	require.NotNil(t, body.Criteria.Players.To)
	assert.Equal(t, 6.0, *body.Criteria.Players.To)
	assert.Nil(t, body.Criteria.Playtime.To)
}

func TestAPIGenres(t *testing.T) {
	srv := newTestServer(t, testRecords())

	var genres []string
	require.NoError(t, json.NewDecoder(get(t, srv.URL+"/api/genres").Body).Decode(&genres))
	assert.Equal(t, []string{"all", "Abstract", "Party", "Strategy"}, genres)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	var body healthResponse
	require.NoError(t, json.NewDecoder(get(t, srv.URL+"/healthz").Body).Decode(&body))
	assert.Equal(t, healthResponse{Status: "ok", Records: 0, Loaded: true}, body)
}

func TestEmptyCatalogPage(t *testing.T) {
	srv := newTestServer(t, nil)

	doc := document(t, get(t, srv.URL+"/"))
	assert.Equal(t, 0, doc.Find(".game-card").Length())
	assert.Equal(t, 1, doc.Find(".no-results").Length())
	assert.Equal(t, 0, doc.Find("#featured article").Length())
}

func TestLiveFilter(t *testing.T) {
	srv := newTestServer(t, testRecords())

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	messages := []map[string]any{
		{"q": "cat"},
		{"genre": "Party", "players_from": 5},
		{"playtime_from": "50", "playtime_to": 60},
		{"reset": true},
	}
	for _, msg := range messages {
		require.NoError(t, conn.WriteJSON(msg))
	}

	want := []struct {
		count int
		ids   []string
	}{
		{1, []string{"1"}},
		{1, []string{"2"}},
		{0, nil},
		{3, []string{"1", "2", "17"}},
	}
	for _, w := range want {
		var result liveResult
		require.NoError(t, conn.ReadJSON(&result))
		assert.Equal(t, w.count, result.Count)

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
		require.NoError(t, err)
		var ids []string
		doc.Find(".game-card").Each(func(_ int, s *goquery.Selection) {
			ids = append(ids, s.AttrOr("data-game-id", ""))
		})
		assert.Equal(t, w.ids, ids)
	}
}

func TestLiveFilterRejectsCrossOrigin(t *testing.T) {
	srv := newTestServer(t, testRecords())

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	header := http.Header{"Origin": {"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestValuesFromMessage(t *testing.T) {
	v := valuesFromMessage(map[string]any{
		"q":            "azul",
		"players_from": float64(2),
		"players_to":   nil,
		"nested":       map[string]any{"a": 1},
	})

	assert.Equal(t, "azul", v.Get("q"))
	assert.Equal(t, "2", v.Get("players_from"))
	assert.False(t, v.Has("players_to"))
	assert.False(t, v.Has("nested"))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := RequestLogger(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/games?q=x", nil)
	req.Header.Set("X-Forwarded-For", "8.8.4.4")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	id := rec.Header().Get(HeaderRequestID)
	assert.Len(t, id, 36)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, id, entry["id"])
	assert.Equal(t, "/games", entry["path"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, "8.8.4.4", entry["remote"])
}
