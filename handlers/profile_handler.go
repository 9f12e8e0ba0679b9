package handlers

import (
	"errors"
	"net/http"

	"github.com/sidegames-golf/sidegames/middleware"
	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/services"
)

const (
	maxAvatarUploadSize = 10 << 20 // 10 MB
	avatarFormField     = "avatar"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetMe godoc
// @Summary Мой профиль
// @Tags profiles
// @Produce json
// @Success 200 {object} map[string]interface{} "profile"
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /me/profile [get]
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profileService.GetOwn(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateMe godoc
// @Summary Частичное обновление профиля
// @Tags profiles
// @Description Меняются только переданные поля; пустая строка очищает поле.
// @Accept json
// @Produce json
// @Param input body services.UpdateProfileInput true "Поля профиля"
// @Success 200 {object} map[string]interface{} "profile"
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /me/profile [patch]
func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var input services.UpdateProfileInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.profileService.Update(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateNotifications godoc
// @Summary Настройки уведомлений и приватности
// @Tags profiles
// @Accept json
// @Produce json
// @Param input body models.NotificationPreferences true "Флаги"
// @Success 200 {object} map[string]interface{} "profile"
// @Security BearerAuth
// @Router /me/profile/notifications [put]
func (h *ProfileHandler) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var input models.NotificationPreferences
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.profileService.UpdateNotifications(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadAvatar godoc
// @Summary Загрузка аватара
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Изображение (JPEG, PNG, GIF)"
// @Success 200 {object} map[string]interface{} "profile"
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string "Хранилище не настроено"
// @Security BearerAuth
// @Router /me/profile/avatar [post]
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarUploadSize)
	if err := r.ParseMultipartForm(maxAvatarUploadSize); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			badRequestResponse(w, r, errors.New("avatar must not be larger than 10 MB"))
			return
		}
		badRequestResponse(w, r, errors.New("invalid multipart form"))
		return
	}

	file, _, err := r.FormFile(avatarFormField)
	if err != nil {
		badRequestResponse(w, r, errors.New("avatar file is required"))
		return
	}
	defer file.Close()

	profile, err := h.profileService.UploadAvatar(r.Context(), userID, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteMe godoc
// @Summary Удаление учётной записи
// @Tags profiles
// @Success 204
// @Security BearerAuth
// @Router /me/profile [delete]
func (h *ProfileHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.profileService.Delete(r.Context(), userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetByID godoc
// @Summary Профиль пользователя
// @Tags profiles
// @Description Владелец видит профиль целиком, остальные только публичные поля.
// @Produce json
// @Param id path string true "User ID (uuid)"
// @Success 200 {object} map[string]interface{} "profile"
// @Failure 404 {object} map[string]string
// @Router /profiles/{id} [get]
func (h *ProfileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getUUIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.profileService.GetByID(r.Context(), middleware.OptionalUserID(r.Context()), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
