package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sidegames-golf/sidegames/logger"
	"github.com/sidegames-golf/sidegames/services"
)

type PurchaseHandler struct {
	purchaseService services.PurchaseService
}

func NewPurchaseHandler(purchaseService services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// List godoc
// @Summary Мои покупки
// @Tags purchases
// @Produce json
// @Param event_id query int false "Только покупки по этому событию"
// @Success 200 {object} map[string]interface{} "purchases"
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /me/purchases [get]
func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	eventID, err := queryID(r, "event_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	purchases, err := h.purchaseService.List(r.Context(), userID, eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"purchases": purchases}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MyEvents godoc
// @Summary Мои события
// @Tags purchases
// @Description События, в которые я записан, и события, которые я создал.
// @Produce json
// @Success 200 {object} models.MyEvents
// @Security BearerAuth
// @Router /me/events [get]
func (h *PurchaseHandler) MyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	events, err := h.purchaseService.MyEvents(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, events, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Receipt godoc
// @Summary PDF-квитанция
// @Tags purchases
// @Produce application/pdf
// @Param id path int true "Purchase ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /me/purchases/{id}/receipt [get]
func (h *PurchaseHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	pdf, err := h.purchaseService.Receipt(r.Context(), userID, id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%d.pdf"`, id))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		requestLog(r).Warn("failed to write receipt", slog.Int64("purchase_id", id), logger.Err(err))
	}
}
