package handlers

import (
	"net/http"

	"github.com/sidegames-golf/sidegames/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(s services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: s}
}

// Load godoc
// @Summary Данные экрана выбора события
// @Tags dashboard
// @Description Туры, поля, события и каталог побочных игр одним ответом. С event_id дополнительно возвращает предвыбранное событие с доступными играми и статусом записи.
// @Produce json
// @Param tour_id query int false "Tour ID"
// @Param location_id query int false "Location ID"
// @Param event_id query int false "Event ID из ссылки"
// @Success 200 {object} models.Dashboard
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /dashboard [get]
func (h *DashboardHandler) Load(w http.ResponseWriter, r *http.Request) {
	var query services.DashboardQuery
	var err error
	if query.TourID, err = queryID(r, "tour_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if query.LocationID, err = queryID(r, "location_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if query.EventID, err = queryID(r, "event_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	dash, err := h.dashboardService.Load(r.Context(), query)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, dash, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
