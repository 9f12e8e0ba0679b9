package handlers

import (
	"net/http"
	"strings"

	"github.com/sidegames-golf/sidegames/services"
)

type LocationHandler struct {
	locationService services.LocationService
}

func NewLocationHandler(locationService services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// List godoc
// @Summary Список полей
// @Tags locations
// @Produce json
// @Param tour_id query int false "Только поля этого тура"
// @Param q query string false "Поиск по названию"
// @Success 200 {object} map[string]interface{} "locations"
// @Failure 400 {object} map[string]string
// @Router /locations [get]
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	tourID, err := queryID(r, "tour_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	filter := services.LocationListFilter{
		TourID: tourID,
		Query:  strings.TrimSpace(r.URL.Query().Get("q")),
	}

	locations, err := h.locationService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"locations": locations}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByID godoc
// @Summary Поле по ID
// @Tags locations
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {object} map[string]interface{} "location"
// @Failure 404 {object} map[string]string
// @Router /locations/{id} [get]
func (h *LocationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	location, err := h.locationService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"location": location}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create godoc
// @Summary Создать поле
// @Tags locations
// @Accept json
// @Produce json
// @Param input body services.LocationInput true "Данные поля"
// @Success 201 {object} map[string]interface{} "location"
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /locations [post]
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.LocationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	location, err := h.locationService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"location": location}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update godoc
// @Summary Обновить поле
// @Tags locations
// @Accept json
// @Produce json
// @Param id path int true "Location ID"
// @Param input body services.LocationInput true "Данные поля"
// @Success 200 {object} map[string]interface{} "location"
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /locations/{id} [put]
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.LocationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	location, err := h.locationService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"location": location}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary Удалить поле
// @Tags locations
// @Param id path int true "Location ID"
// @Success 204
// @Failure 409 {object} map[string]string "Поле используется"
// @Security BearerAuth
// @Router /locations/{id} [delete]
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.locationService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
