package browse

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cast"
)

const maxMessageSize = 4096

// liveResult answers one criteria message on the live filter socket.
type liveResult struct {
	Count int    `json:"count"`
	HTML  string `json:"html"`
	Reset bool   `json:"reset,omitempty"`
}

// LiveFilter upgrades to a websocket. Each message is a flat JSON object
// using the query parameter names; {"reset": true} restores the defaults.
// Messages are answered one at a time, in the order they arrive.
func (h *Handler) LiveFilter(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)

	for {
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("live filter connection closed", "error", err)
			}
			return
		}

		var (
			buf    bytes.Buffer
			result liveResult
		)
		if cast.ToBool(msg["reset"]) {
			_, err = h.ctrl.Reset(&buf)
			result.Reset = true
			result.Count = h.ctrl.Len()
		} else {
			result.Count, err = h.ctrl.Update(&buf, CriteriaFromValues(valuesFromMessage(msg)))
		}
		if err != nil {
			h.logger.Error("failed to render live update", "error", err)
			return
		}
		result.HTML = buf.String()

		if err := conn.WriteJSON(result); err != nil {
			return
		}
	}
}

// valuesFromMessage flattens a decoded JSON message into query values so
// the socket and the HTTP endpoints share one parser. Numbers and strings are
// both accepted; null and nested values are ignored.
func valuesFromMessage(msg map[string]any) url.Values {
	v := url.Values{}
	for key, raw := range msg {
		switch raw.(type) {
		case nil, map[string]any, []any:
			continue
		}
		s, err := cast.ToStringE(raw)
		if err != nil {
			continue
		}
		v.Set(key, s)
	}
	return v
}
