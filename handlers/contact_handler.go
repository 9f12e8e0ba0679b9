package handlers

import (
	"net/http"

	"github.com/sidegames-golf/sidegames/services"
)

type ContactHandler struct {
	contactService services.ContactService
}

func NewContactHandler(contactService services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Send godoc
// @Summary Сообщение в поддержку
// @Tags contact
// @Accept json
// @Produce json
// @Param input body services.ContactInput true "Имя, email и текст"
// @Success 202 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Failure 429 {object} map[string]string
// @Router /contact [post]
func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input services.ContactInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.contactService.Send(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusAccepted, jsonResponse{"message": "thanks, we will get back to you soon"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
