package handlers

import (
	"errors"
	"net/http"

	"github.com/sidegames-golf/sidegames/middleware"
	"github.com/sidegames-golf/sidegames/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUp godoc
// @Summary Регистрация
// @Tags auth
// @Description Создаёт учётную запись и профиль, отправляет письмо для подтверждения email и сразу выдаёт токен.
// @Accept json
// @Produce json
// @Param input body services.SignUpInput true "Email, пароль и имя для показа"
// @Success 201 {object} services.AuthResult
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Email уже занят"
// @Failure 422 {object} map[string]interface{} "Ошибки по полям"
// @Failure 429 {object} map[string]string
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input services.SignUpInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.authService.SignUp(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Login godoc
// @Summary Вход
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.LoginInput true "Email и пароль"
// @Success 200 {object} services.AuthResult
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string "Неверный email или пароль"
// @Failure 429 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.Email == "" || input.Password == "" {
		badRequestResponse(w, r, errors.New("email and password are required"))
		return
	}

	result, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Logout godoc
// @Summary Выход
// @Tags auth
// @Description Отзывает текущий токен. Если отозвать не удалось, ответ содержит warning и клиент должен сам очистить сохранённые данные.
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.GetClaimsFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	warning, err := h.authService.Logout(r.Context(), *claims)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"message": "signed out"}
	if warning != "" {
		response["warning"] = warning
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Session godoc
// @Summary Текущий пользователь
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{} "user: учётная запись вместе с профилем"
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /auth/session [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.authService.Session(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdatePassword godoc
// @Summary Смена пароля
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.UpdatePasswordInput true "Текущий и новый пароль"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /auth/password [put]
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var input services.UpdatePasswordInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.authService.UpdatePassword(r.Context(), userID, input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "password updated"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ConfirmEmail godoc
// @Summary Подтверждение email
// @Tags auth
// @Produce json
// @Param token query string true "Токен из письма"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Email уже подтверждён"
// @Router /auth/confirm [get]
func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		badRequestResponse(w, r, errors.New("confirmation token is required"))
		return
	}

	if err := h.authService.ConfirmEmail(r.Context(), token); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "email confirmed"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ForgotPassword godoc
// @Summary Запрос на сброс пароля
// @Tags auth
// @Description Ответ одинаковый независимо от того, зарегистрирован ли email.
// @Accept json
// @Produce json
// @Param input body object true "{\"email\": \"...\"}"
// @Success 202 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Failure 429 {object} map[string]string
// @Router /auth/password/forgot [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), input.Email); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	message := "if an account with that email exists, a password reset link has been sent"
	if err := writeJSON(w, http.StatusAccepted, jsonResponse{"message": message}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetPassword godoc
// @Summary Установка нового пароля по токену из письма
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.ResetPasswordInput true "Токен и новый пароль"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Токен недействителен или истёк"
// @Failure 422 {object} map[string]interface{}
// @Failure 429 {object} map[string]string
// @Router /auth/password/reset [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var input services.ResetPasswordInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.authService.ResetPassword(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "password has been reset"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
