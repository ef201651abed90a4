package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/orders"
	"github.com/agamariel/domeda/internal/services"
)

func TestOrderHandler_CreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockService    *mockOrderService
		expectedStatus int
	}{
		{
			name: "created",
			body: `{"dish_id":3,"qty":2}`,
			mockService: &mockOrderService{
				CreateFunc: func(ctx context.Context, req *models.OrderRequest) (*models.Order, error) {
					if req.DishID == nil || *req.DishID != 3 || req.Qty != 2 {
						t.Fatalf("unexpected request: %+v", req)
					}
					return &models.Order{ID: "ORD-20260310-0001", Status: models.OrderStatusNew}, nil
				},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "broken body is treated as empty",
			body: `{"dish_id":`,
			mockService: &mockOrderService{
				CreateFunc: func(ctx context.Context, req *models.OrderRequest) (*models.Order, error) {
					if req.DishID != nil {
						t.Fatalf("expected empty request, got %+v", req)
					}
					return nil, services.ErrDishIDRequired
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "stock",
			body: `{"dish_id":3,"qty":50}`,
			mockService: &mockOrderService{
				CreateFunc: func(ctx context.Context, req *models.OrderRequest) (*models.Order, error) {
					return nil, services.ErrDishStockNotEnough
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown dish",
			body: `{"dish_id":404}`,
			mockService: &mockOrderService{
				CreateFunc: func(ctx context.Context, req *models.OrderRequest) (*models.Order, error) {
					return nil, services.ErrDishNotFound
				},
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewOrderHandler(tt.mockService)
			c, rec := newTestContext(http.MethodPost, "/api/orders", tt.body, echo.MIMEApplicationJSON)

			err := handler.CreateOrder(c)
			if status := statusOf(err, rec); status != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, status)
			}
		})
	}
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	e := newTestServer()
	handler := NewOrderHandler(&mockOrderService{
		UpdateStatusFunc: func(ctx context.Context, orderID string, req *models.StatusUpdateRequest) (*orders.View, error) {
			switch {
			case orderID != "ORD-20260310-0001":
				return nil, services.ErrOrderNotFound
			case req.Status == "delivering":
				return nil, &orders.TransitionError{Current: models.OrderStatusReady, Requested: models.OrderStatusDelivering}
			case req.Status == "eaten":
				return nil, orders.ErrStatusInvalid
			}
			view := orders.Enrich(models.Order{ID: orderID, Status: models.OrderStatus(req.Status)})
			return &view, nil
		},
	})
	e.POST("/api/orders/:id/status", handler.UpdateStatus)

	tests := []struct {
		name           string
		orderID        string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{"accepted", "ORD-20260310-0001", `{"status":"cooking"}`, http.StatusOK, ""},
		{"pickup cannot be delivered", "ORD-20260310-0001", `{"status":"delivering"}`, http.StatusBadRequest, "status_transition_invalid"},
		{"unknown status", "ORD-20260310-0001", `{"status":"eaten"}`, http.StatusBadRequest, "status_invalid"},
		{"unknown order", "ORD-20260310-0009", `{"status":"cooking"}`, http.StatusNotFound, "order_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/orders/"+tt.orderID+"/status", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected %d, got %d (%s)", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			body := decodeJSON(t, rec)
			if tt.expectedError != "" && body["error"] != tt.expectedError {
				t.Fatalf("expected error %q, got %v", tt.expectedError, body["error"])
			}
			if tt.expectedError == "" {
				order, _ := body["order"].(map[string]any)
				if order["status_label"] != "Готовится" {
					t.Fatalf("expected enriched order, got %v", body)
				}
			}
		})
	}
}

func TestOrderHandler_ListOrders(t *testing.T) {
	var got models.OrderFilter
	handler := NewOrderHandler(&mockOrderService{
		ListFunc: func(ctx context.Context, filter models.OrderFilter) ([]orders.View, error) {
			got = filter
			return []orders.View{orders.Enrich(models.Order{ID: "ORD-20260310-0001"})}, nil
		},
	})

	c, rec := newTestContext(http.MethodGet, "/api/orders?role=cook&cook_id=7x&customer_phone=%2B7", "", "")
	if err := handler.ListOrders(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := models.OrderFilter{Role: "cook", CookID: 0, Status: "all", CustomerPhone: "+7"}
	if got != want {
		t.Fatalf("filter mismatch: got %+v want %+v", got, want)
	}
	if body := decodeJSON(t, rec); body["total"] != float64(1) {
		t.Fatalf("expected total 1, got %v", body["total"])
	}
}

func TestOrderHandler_GetOrder_NotFound(t *testing.T) {
	handler := NewOrderHandler(&mockOrderService{})
	c, rec := newTestContext(http.MethodGet, "/api/orders/nope", "", "")
	c.SetParamNames("id")
	c.SetParamValues("nope")

	if status := statusOf(handler.GetOrder(c), rec); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestOrderHandler_OrderQRCode(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		expectedSize int
	}{
		{"default size", "", services.DefaultQRCodeSize},
		{"custom size", "?size=512", 512},
		{"too large", "?size=100000", services.DefaultQRCodeSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSize int
			handler := NewOrderHandler(&mockOrderService{
				QRCodeFunc: func(ctx context.Context, orderID string, size int) ([]byte, error) {
					gotSize = size
					return []byte("\x89PNG"), nil
				},
			})
			c, rec := newTestContext(http.MethodGet, "/api/orders/ORD-20260310-0001/qrcode"+tt.query, "", "")
			c.SetParamNames("id")
			c.SetParamValues("ORD-20260310-0001")

			if err := handler.OrderQRCode(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/png" {
				t.Fatalf("expected image/png, got %q", ct)
			}
			if gotSize != tt.expectedSize {
				t.Fatalf("expected size %d, got %d", tt.expectedSize, gotSize)
			}
		})
	}
}

func TestOrderHandler_ListPayments(t *testing.T) {
	handler := NewOrderHandler(&mockOrderService{
		PaymentsFunc: func(ctx context.Context) ([]models.Payment, error) {
			return []models.Payment{{ID: "PAY-20260310-0001"}, {ID: "PAY-20260310-0002"}}, nil
		},
	})

	c, rec := newTestContext(http.MethodGet, "/api/payments", "", "")
	if err := handler.ListPayments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body := decodeJSON(t, rec); body["total"] != float64(2) {
		t.Fatalf("expected total 2, got %v", body["total"])
	}
}
