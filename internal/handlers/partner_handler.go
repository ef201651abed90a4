package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/services"
)

// PartnerHandler обрабатывает заявки поваров.
type PartnerHandler struct {
	partnerService services.PartnerService
}

// NewPartnerHandler создает новый PartnerHandler.
func NewPartnerHandler(partnerService services.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// BookCourier бронирует курьера.
// POST /api/courier/book
func (h *PartnerHandler) BookCourier(c echo.Context) error {
	var req models.CourierBookingRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	booking, err := h.partnerService.BookCourier(c.Request().Context(), &req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"booking": booking})
}

// RequestVerification принимает заявку на проверку повара.
// POST /api/cooks/verification
func (h *PartnerHandler) RequestVerification(c echo.Context) error {
	var req models.VerificationRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	verification, err := h.partnerService.RequestVerification(c.Request().Context(), &req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"verification": verification})
}
