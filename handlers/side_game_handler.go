package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sidegames-golf/sidegames/services"
)

type SideGameHandler struct {
	sideGameService services.SideGameService
}

func NewSideGameHandler(sideGameService services.SideGameService) *SideGameHandler {
	return &SideGameHandler{sideGameService: sideGameService}
}

// List godoc
// @Summary Каталог побочных игр
// @Tags side-games
// @Produce json
// @Success 200 {object} map[string]interface{} "side_games"
// @Router /side-games [get]
func (h *SideGameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.sideGameService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"side_games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByKey godoc
// @Summary Побочная игра по ключу
// @Tags side-games
// @Produce json
// @Param key path string true "Ключ, например 01_Low_Net"
// @Success 200 {object} map[string]interface{} "side_game"
// @Failure 404 {object} map[string]string
// @Router /side-games/{key} [get]
func (h *SideGameHandler) GetByKey(w http.ResponseWriter, r *http.Request) {
	game, err := h.sideGameService.GetByKey(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"side_game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
