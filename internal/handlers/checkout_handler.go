package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/services"
)

// CheckoutHandler обрабатывает оформление корзины.
type CheckoutHandler struct {
	checkoutService services.CheckoutService
}

// NewCheckoutHandler создает новый CheckoutHandler.
func NewCheckoutHandler(checkoutService services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Checkout оплачивает корзину и создает заказ.
// POST /api/checkout
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	var req models.CheckoutRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	result, err := h.checkoutService.Checkout(c.Request().Context(), &req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, result)
}
