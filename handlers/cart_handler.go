package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/services"
)

type CartHandler struct {
	cartService     services.CartService
	checkoutService services.CheckoutService
}

func NewCartHandler(cartService services.CartService, checkoutService services.CheckoutService) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

// Get godoc
// @Summary Корзина
// @Tags cart
// @Produce json
// @Success 200 {object} models.CartView
// @Security BearerAuth
// @Router /cart [get]
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	view, err := h.cartService.Get(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Add godoc
// @Summary Добавить событие в корзину
// @Tags cart
// @Description Ключи игр проверяются по настройкам события и уже купленным играм.
// @Accept json
// @Produce json
// @Param input body services.AddToCartInput true "Событие и выбранные игры"
// @Success 200 {object} models.CartView
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Событие уже в корзине"
// @Security BearerAuth
// @Router /cart [post]
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var input services.AddToCartInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.cartService.Add(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Replace godoc
// @Summary Заменить корзину локальной копией клиента
// @Tags cart
// @Description Каждая позиция проверяется заново, суммы пересчитываются на сервере.
// @Accept json
// @Produce json
// @Param input body object true "{\"items\": [CartItem]}"
// @Success 200 {object} models.CartView
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /cart [put]
func (h *CartHandler) Replace(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var input struct {
		Items models.CartItems `json:"items"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.cartService.Replace(r.Context(), userID, services.ItemsToInputs(input.Items))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Clear godoc
// @Summary Очистить корзину
// @Tags cart
// @Success 204
// @Security BearerAuth
// @Router /cart [delete]
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.cartService.Clear(r.Context(), userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveItem godoc
// @Summary Удалить позицию корзины
// @Tags cart
// @Produce json
// @Param index path int true "Номер позиции, с нуля"
// @Success 200 {object} models.CartView
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /cart/items/{index} [delete]
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		badRequestResponse(w, r, errors.New("invalid index format"))
		return
	}

	view, err := h.cartService.Remove(r.Context(), userID, index)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Quote godoc
// @Summary Расчёт суммы к оплате
// @Tags cart
// @Produce json
// @Success 200 {object} models.FeeBreakdown
// @Security BearerAuth
// @Router /cart/quote [get]
func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	quote, err := h.checkoutService.Quote(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, quote, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Checkout godoc
// @Summary Оформление покупки
// @Tags cart
// @Description Уже купленные игры пропускаются. Если позиция целиком состоит из купленных игр, оформление отменяется, корзина остаётся.
// @Accept json
// @Produce json
// @Param input body services.CheckoutInput true "Способ оплаты: apple-pay, google-pay, paypal, venmo, cash-app, card"
// @Success 201 {object} services.CheckoutResult
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Все игры позиции уже куплены"
// @Security BearerAuth
// @Router /checkout [post]
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var input services.CheckoutInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.checkoutService.Checkout(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
