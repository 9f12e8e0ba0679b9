package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/sidegames-golf/sidegames/logger"
	"github.com/sidegames-golf/sidegames/realtime"
)

type WebSocketHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler принимает список разрешённых Origin; "*" разрешает любой.
func NewWebSocketHandler(hub *realtime.Hub, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// ServeCart godoc
// @Summary Уведомления о корзине и покупках
// @Tags realtime
// @Description WebSocket. Сервер присылает {type, payload, room_id} с типами CART_UPDATED и PURCHASE_COMPLETED; входящие сообщения игнорируются.
// @Param token query string true "JWT"
// @Success 101
// @Failure 401 {object} map[string]string
// @Router /ws/cart [get]
func (h *WebSocketHandler) ServeCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту.
		requestLog(r).Debug("websocket upgrade failed", slog.String("user_id", userID.String()), logger.Err(err))
		return
	}

	h.hub.Attach(conn, realtime.UserRoom(userID))
}
