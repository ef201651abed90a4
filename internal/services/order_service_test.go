package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agamariel/domeda/internal/events"
	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/orders"
	"github.com/agamariel/domeda/internal/storage"
)

func intPtr(v int) *int { return &v }

func newOrderSvc(t *testing.T, seed map[string]any) (*OrderServiceImpl, *storage.Store, *recordingPublisher) {
	t.Helper()
	store, _ := newSeededStore(t, seed)
	publisher := &recordingPublisher{}
	return NewOrderService(store, publisher, discardLogger, testClock, "https://domeda.example/"), store, publisher
}

func seedOrders() []models.Order {
	return []models.Order{
		{
			ID:            "ORD-20260301-0001",
			Items:         []models.LineItem{{DishID: 1, CookID: 10, Qty: 1, UnitPrice: 500, Subtotal: 500}},
			TotalPrice:    500,
			CustomerName:  "Мария Петрова",
			CustomerPhone: "+7 (900) 111-22-33",
			DeliveryMode:  "pickup",
			Status:        models.OrderStatusReady,
			CreatedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:            "ORD-20260302-0002",
			Items:         []models.LineItem{{DishID: 2, CookID: 20, Qty: 2, UnitPrice: 300, Subtotal: 600}},
			TotalPrice:    600,
			CustomerName:  "Иван",
			CustomerPhone: "89004445566",
			DeliveryMode:  "courier",
			Status:        models.OrderStatusPaid,
			CreatedAt:     time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:            "ORD-20260303-0003",
			Items:         []models.LineItem{{DishID: 1, CookID: 10, Qty: 1, UnitPrice: 500}, {DishID: 2, CookID: 20, Qty: 1, UnitPrice: 300}},
			CustomerName:  "Мария",
			CustomerPhone: "+79001112233",
			DeliveryMode:  "cook",
			Status:        models.OrderStatusCompleted,
			CreatedAt:     time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("creates order and takes stock", func(t *testing.T) {
		svc, store, publisher := newOrderSvc(t, defaultSeed())

		order, err := svc.CreateOrder(ctx, &models.OrderRequest{DishID: intPtr(2), Qty: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.ID != "ORD-20260310-0001" || order.Status != models.OrderStatusNew {
			t.Errorf("unexpected order %s %s", order.ID, order.Status)
		}
		if order.TotalPrice != 600 || len(order.Items) != 1 || order.Items[0].Subtotal != 600 {
			t.Errorf("unexpected pricing %+v", order)
		}
		if order.DeliveryMode != "pickup" {
			t.Errorf("delivery_mode = %s, want first dish mode", order.DeliveryMode)
		}
		if len(order.StatusHistory) != 1 || order.StatusHistory[0].By != "customer" || order.StatusHistory[0].Note != "Заказ создан" {
			t.Errorf("unexpected history %+v", order.StatusHistory)
		}
		if got := dishStock(t, store, 2); got != 3 {
			t.Errorf("portions_available = %d, want 3", got)
		}
		if publisher.count() != 1 {
			t.Errorf("expected one event, got %d", publisher.count())
		}
	})

	tests := []struct {
		name    string
		req     *models.OrderRequest
		wantErr error
	}{
		{"missing dish", &models.OrderRequest{Qty: 1}, ErrDishIDRequired},
		{"invalid dish", &models.OrderRequest{DishID: intPtr(-1), Qty: 1}, ErrDishIDInvalid},
		{"unknown dish", &models.OrderRequest{DishID: intPtr(99), Qty: 1}, ErrDishNotFound},
		{"sold out", &models.OrderRequest{DishID: intPtr(3), Qty: 1}, ErrDishUnavailable},
		{"mode not offered", &models.OrderRequest{DishID: intPtr(2), Qty: 1, DeliveryMode: "courier"}, ErrDeliveryModeNotAvailable},
		{"zero qty", &models.OrderRequest{DishID: intPtr(2), Qty: 0}, ErrQtyInvalid},
		{"too many", &models.OrderRequest{DishID: intPtr(1), Qty: 3}, ErrDishStockNotEnough},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newOrderSvc(t, defaultSeed())
			if _, err := svc.CreateOrder(ctx, tt.req); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if got := dishStock(t, store, 1); got != 2 {
				t.Errorf("stock changed to %d", got)
			}
		})
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("pickup order cannot go delivering", func(t *testing.T) {
		svc, _, _ := newOrderSvc(t, map[string]any{storage.CollectionOrders: seedOrders()})

		_, err := svc.UpdateStatus(ctx, "ORD-20260301-0001", &models.StatusUpdateRequest{Status: "delivering"})

		var te *orders.TransitionError
		if !errors.As(err, &te) {
			t.Fatalf("expected TransitionError, got %v", err)
		}
		if te.Current != models.OrderStatusReady || te.Requested != models.OrderStatusDelivering {
			t.Errorf("unexpected transition error %+v", te)
		}
	})

	t.Run("completes pickup order", func(t *testing.T) {
		svc, store, publisher := newOrderSvc(t, map[string]any{storage.CollectionOrders: seedOrders()})

		view, err := svc.UpdateStatus(ctx, "ORD-20260301-0001", &models.StatusUpdateRequest{Status: " Completed ", Note: "выдан"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.Status != models.OrderStatusCompleted || view.StatusLabel != "Завершен" {
			t.Errorf("unexpected status %s %s", view.Status, view.StatusLabel)
		}
		// Синтезированное начальное событие плюс одно новое.
		if len(view.StatusHistory) != 2 {
			t.Fatalf("history length = %d, want 2", len(view.StatusHistory))
		}
		if last := view.StatusHistory[1]; last.By != "cook" || last.Note != "выдан" || last.StatusLabel != "Завершен" {
			t.Errorf("unexpected event %+v", last)
		}
		if len(view.NextStatuses) != 0 {
			t.Errorf("next_statuses = %v", view.NextStatuses)
		}

		stored, _ := store.Orders(ctx)
		if stored[0].CompletedAt == nil || !stored[0].CompletedAt.Equal(testNow) {
			t.Errorf("completed_at not stamped: %v", stored[0].CompletedAt)
		}
		if publisher.count() != 1 || publisher.events[0].Type != events.OrderStatusChanged || publisher.events[0].PreviousStatus != models.OrderStatusReady {
			t.Errorf("unexpected events %+v", publisher.events)
		}
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		svc, store, publisher := newOrderSvc(t, map[string]any{storage.CollectionOrders: seedOrders()})

		view, err := svc.UpdateStatus(ctx, "ORD-20260302-0002", &models.StatusUpdateRequest{Status: "paid"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.StatusHistory) != 1 {
			t.Errorf("history length = %d, want 1", len(view.StatusHistory))
		}
		stored, _ := store.Orders(ctx)
		if len(stored[1].StatusHistory) != 0 {
			t.Error("stored history changed")
		}
		if publisher.count() != 0 {
			t.Error("event published for no-op")
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, _, _ := newOrderSvc(t, map[string]any{storage.CollectionOrders: seedOrders()})
		if _, err := svc.UpdateStatus(ctx, "ORD-20260302-0002", &models.StatusUpdateRequest{Status: "eaten"}); !errors.Is(err, orders.ErrStatusInvalid) {
			t.Fatalf("expected ErrStatusInvalid, got %v", err)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, _, _ := newOrderSvc(t, map[string]any{storage.CollectionOrders: seedOrders()})
		if _, err := svc.UpdateStatus(ctx, "ORD-404", &models.StatusUpdateRequest{Status: "accepted"}); !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})
}

func TestOrderService_ListOrders(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newOrderSvc(t, map[string]any{storage.CollectionOrders: seedOrders()})

	tests := []struct {
		name   string
		filter models.OrderFilter
		want   []string
	}{
		{"all newest first", models.OrderFilter{}, []string{"ORD-20260303-0003", "ORD-20260302-0002", "ORD-20260301-0001"}},
		{"cook", models.OrderFilter{Role: "cook", CookID: 10}, []string{"ORD-20260303-0003", "ORD-20260301-0001"}},
		{"cook without id sees all", models.OrderFilter{Role: "cook"}, []string{"ORD-20260303-0003", "ORD-20260302-0002", "ORD-20260301-0001"}},
		{"customer phone digits", models.OrderFilter{Role: "customer", CustomerPhone: "900 111-22-33"}, []string{"ORD-20260303-0003", "ORD-20260301-0001"}},
		{"customer phone without digits", models.OrderFilter{Role: "customer", CustomerPhone: "abc"}, []string{}},
		{"customer name", models.OrderFilter{Role: "customer", CustomerName: "петрова"}, []string{"ORD-20260301-0001"}},
		{"name ignored for cook role", models.OrderFilter{Role: "cook", CustomerName: "петрова"}, []string{"ORD-20260303-0003", "ORD-20260302-0002", "ORD-20260301-0001"}},
		{"status", models.OrderFilter{Status: "PAID"}, []string{"ORD-20260302-0002"}},
		{"status all", models.OrderFilter{Status: "all"}, []string{"ORD-20260303-0003", "ORD-20260302-0002", "ORD-20260301-0001"}},
		{"unknown status", models.OrderFilter{Status: "lost"}, []string{}},
		{"order id", models.OrderFilter{OrderID: "ORD-20260302-0002"}, []string{"ORD-20260302-0002"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := svc.ListOrders(ctx, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(views) != len(tt.want) {
				t.Fatalf("got %d orders, want %d", len(views), len(tt.want))
			}
			for i, id := range tt.want {
				if views[i].ID != id {
					t.Errorf("orders[%d] = %s, want %s", i, views[i].ID, id)
				}
			}
		})
	}

	views, _ := svc.ListOrders(ctx, models.OrderFilter{OrderID: "ORD-20260303-0003"})
	if views[0].TotalPrice != 800 {
		t.Errorf("total_price = %d, want recomputed 800", views[0].TotalPrice)
	}
}

func TestOrderService_GetOrder(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newOrderSvc(t, map[string]any{storage.CollectionOrders: seedOrders()})

	view, err := svc.GetOrder(ctx, "ORD-20260302-0002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.ItemCount != 2 || len(view.NextStatuses) != 2 {
		t.Errorf("unexpected view %+v", view)
	}

	if _, err := svc.GetOrder(ctx, "missing"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_OrderQRCode(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newOrderSvc(t, map[string]any{storage.CollectionOrders: seedOrders()})

	if got := svc.ReviewURL("ORD-20260301-0001"); got != "https://domeda.example/review.html?order_id=ORD-20260301-0001" {
		t.Errorf("ReviewURL = %s", got)
	}

	png, err := svc.OrderQRCode(ctx, "ORD-20260301-0001", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("result is not a PNG")
	}

	if _, err := svc.OrderQRCode(ctx, "missing", 128); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_ListPayments(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newOrderSvc(t, map[string]any{
		storage.CollectionPayments: []models.Payment{
			{ID: "PAY-1", CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "PAY-2", CreatedAt: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)},
		},
	})

	payments, err := svc.ListPayments(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payments) != 2 || payments[0].ID != "PAY-2" {
		t.Errorf("unexpected order %+v", payments)
	}
}

func TestOrderService_StorageError(t *testing.T) {
	svc := NewOrderService(&mockStore{
		OrdersFunc: func(ctx context.Context) ([]models.Order, error) {
			return nil, errors.New("db error")
		},
	}, events.NopPublisher{}, discardLogger, testClock, "")

	if _, err := svc.ListOrders(context.Background(), models.OrderFilter{}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := svc.GetOrder(context.Background(), "ORD-1"); err == nil {
		t.Fatal("expected error")
	}
}
