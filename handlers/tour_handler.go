package handlers

import (
	"net/http"

	"github.com/sidegames-golf/sidegames/services"
)

type TourHandler struct {
	tourService services.TourService
}

func NewTourHandler(tourService services.TourService) *TourHandler {
	return &TourHandler{tourService: tourService}
}

// List godoc
// @Summary Список туров
// @Tags tours
// @Produce json
// @Success 200 {object} map[string]interface{} "tours"
// @Router /tours [get]
func (h *TourHandler) List(w http.ResponseWriter, r *http.Request) {
	tours, err := h.tourService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tours": tours}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByID godoc
// @Summary Тур по ID
// @Tags tours
// @Produce json
// @Param id path int true "Tour ID"
// @Success 200 {object} map[string]interface{} "tour"
// @Failure 404 {object} map[string]string
// @Router /tours/{id} [get]
func (h *TourHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tour, err := h.tourService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tour": tour}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create godoc
// @Summary Создать тур
// @Tags tours
// @Accept json
// @Produce json
// @Param input body services.TourInput true "Название и описание"
// @Success 201 {object} map[string]interface{} "tour"
// @Failure 409 {object} map[string]string "Название занято"
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /tours [post]
func (h *TourHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.TourInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tour, err := h.tourService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tour": tour}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update godoc
// @Summary Обновить тур
// @Tags tours
// @Accept json
// @Produce json
// @Param id path int true "Tour ID"
// @Param input body services.TourInput true "Название и описание"
// @Success 200 {object} map[string]interface{} "tour"
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tours/{id} [put]
func (h *TourHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.TourInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tour, err := h.tourService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tour": tour}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary Удалить тур
// @Tags tours
// @Param id path int true "Tour ID"
// @Success 204
// @Failure 409 {object} map[string]string "На тур ссылаются события"
// @Security BearerAuth
// @Router /tours/{id} [delete]
func (h *TourHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tourService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListLocations godoc
// @Summary Поля тура
// @Tags tours
// @Produce json
// @Param id path int true "Tour ID"
// @Success 200 {object} map[string]interface{} "locations"
// @Failure 404 {object} map[string]string
// @Router /tours/{id}/locations [get]
func (h *TourHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	locations, err := h.tourService.ListLocations(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"locations": locations}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LinkLocation godoc
// @Summary Привязать поле к туру
// @Tags tours
// @Produce json
// @Param id path int true "Tour ID"
// @Param locationID path int true "Location ID"
// @Success 201 {object} map[string]interface{} "tour_location"
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Уже привязано"
// @Security BearerAuth
// @Router /tours/{id}/locations/{locationID} [post]
func (h *TourHandler) LinkLocation(w http.ResponseWriter, r *http.Request) {
	tourID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	locationID, err := getIDFromURL(r, "locationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	link, err := h.tourService.LinkLocation(r.Context(), tourID, locationID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tour_location": link}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UnlinkLocation godoc
// @Summary Отвязать поле от тура
// @Tags tours
// @Param id path int true "Tour ID"
// @Param locationID path int true "Location ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /tours/{id}/locations/{locationID} [delete]
func (h *TourHandler) UnlinkLocation(w http.ResponseWriter, r *http.Request) {
	tourID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	locationID, err := getIDFromURL(r, "locationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tourService.UnlinkLocation(r.Context(), tourID, locationID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMyTours godoc
// @Summary Мои туры
// @Tags tours
// @Produce json
// @Success 200 {object} map[string]interface{} "tours"
// @Security BearerAuth
// @Router /me/tours [get]
func (h *TourHandler) ListMyTours(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	tours, err := h.tourService.ListJoined(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tours": tours}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Join godoc
// @Summary Вступить в тур
// @Tags tours
// @Produce json
// @Param tourID path int true "Tour ID"
// @Success 201 {object} map[string]interface{} "membership"
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Уже в туре"
// @Security BearerAuth
// @Router /me/tours/{tourID} [post]
func (h *TourHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	tourID, err := getIDFromURL(r, "tourID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	membership, err := h.tourService.Join(r.Context(), userID, tourID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"membership": membership}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Leave godoc
// @Summary Покинуть тур
// @Tags tours
// @Param tourID path int true "Tour ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /me/tours/{tourID} [delete]
func (h *TourHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	tourID, err := getIDFromURL(r, "tourID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tourService.Leave(r.Context(), userID, tourID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
