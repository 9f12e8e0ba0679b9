package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/services"
)

type EventHandler struct {
	eventService services.EventService
}

func NewEventHandler(eventService services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// parseEventFilter собирает фильтр списка событий из query-параметров.
func parseEventFilter(r *http.Request) (services.EventListFilter, error) {
	var filter services.EventListFilter
	q := r.URL.Query()

	var err error
	if filter.TourID, err = queryID(r, "tour_id"); err != nil {
		return filter, err
	}
	if filter.LocationID, err = queryID(r, "location_id"); err != nil {
		return filter, err
	}

	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1900 || year > 3000 {
			return filter, fmt.Errorf("invalid year query parameter")
		}
		filter.Year = &year
	}

	for name, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		day, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return filter, fmt.Errorf("invalid %s query parameter, expected YYYY-MM-DD", name)
		}
		*dst = &day
	}

	if raw := q.Get("created_by"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid created_by query parameter")
		}
		filter.CreatedBy = &id
	}

	return filter, nil
}

// List godoc
// @Summary Список событий
// @Tags events
// @Produce json
// @Param tour_id query int false "Tour ID"
// @Param location_id query int false "Location ID"
// @Param year query int false "Год"
// @Param from query string false "С даты (YYYY-MM-DD)"
// @Param to query string false "По дату (YYYY-MM-DD)"
// @Param created_by query string false "Автор (uuid)"
// @Success 200 {object} map[string]interface{} "events"
// @Failure 400 {object} map[string]string
// @Router /events [get]
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEventFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.eventService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByID godoc
// @Summary Событие с настройками побочных игр
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} map[string]interface{} "event"
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.GetDetails(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create godoc
// @Summary Создать событие
// @Tags events
// @Description Нужна хотя бы одна включённая побочная игра, взнос каждой не меньше $5.00.
// @Accept json
// @Produce json
// @Param input body services.EventInput true "Событие и его побочные игры"
// @Success 201 {object} map[string]interface{} "event"
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /events [post]
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var input services.EventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.Create(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/api/v1/events/%d", event.ID))
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"event": event}, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update godoc
// @Summary Обновить событие
// @Tags events
// @Description Доступно только автору события.
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param input body services.EventInput true "Событие и его побочные игры"
// @Success 200 {object} map[string]interface{} "event"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /events/{id} [put]
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.EventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.Update(r.Context(), userID, id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete godoc
// @Summary Удалить событие
// @Tags events
// @Param id path int true "Event ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string "По событию есть покупки"
// @Security BearerAuth
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.eventService.Delete(r.Context(), userID, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Calendar godoc
// @Summary События месяца для календаря
// @Tags events
// @Produce json
// @Param month query string true "Месяц в формате YYYY-MM"
// @Success 200 {object} map[string]interface{} "entries"
// @Failure 400 {object} map[string]string
// @Router /calendar [get]
func (h *EventHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	entries, err := h.eventService.Calendar(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"entries": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
