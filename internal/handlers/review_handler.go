package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/services"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReview сохраняет отзыв о блюде.
// POST /api/reviews
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req models.ReviewRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	review, err := h.reviewService.CreateReview(c.Request().Context(), &req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"review": review})
}
