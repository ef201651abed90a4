package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/services"
)

// OrderHandler обрабатывает запросы, связанные с заказами и платежами.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler создает новый OrderHandler.
func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder оформляет заказ одного блюда без оплаты.
// POST /api/orders
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req models.OrderRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), &req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"order": order})
}

// UpdateStatus меняет статус заказа.
// POST /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req models.StatusUpdateRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	view, err := h.orderService.UpdateStatus(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"order": view})
}

// ListOrders возвращает заказы для кабинета повара или покупателя.
// GET /api/orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
	filter := models.OrderFilter{
		Role:          queryString(c, "role", "all"),
		CookID:        parseInt(c.QueryParam("cook_id"), 0),
		Status:        queryString(c, "status", "all"),
		CustomerPhone: c.QueryParam("customer_phone"),
		CustomerName:  c.QueryParam("customer_name"),
		OrderID:       c.QueryParam("order_id"),
	}

	items, err := h.orderService.ListOrders(c.Request().Context(), filter)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, listResponse(items, len(items)))
}

// GetOrder возвращает заказ.
// GET /api/orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	view, err := h.orderService.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"order": view})
}

// OrderQRCode отдает PNG с QR-кодом ссылки на отзыв.
// GET /api/orders/:id/qrcode
func (h *OrderHandler) OrderQRCode(c echo.Context) error {
	size := parseInt(c.QueryParam("size"), services.DefaultQRCodeSize)
	if size < 64 || size > 1024 {
		size = services.DefaultQRCodeSize
	}

	png, err := h.orderService.OrderQRCode(c.Request().Context(), c.Param("id"), size)
	if err != nil {
		return serviceError(err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// ListPayments возвращает платежи.
// GET /api/payments
func (h *OrderHandler) ListPayments(c echo.Context) error {
	payments, err := h.orderService.ListPayments(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, listResponse(payments, len(payments)))
}
