package handlers

import (
	"context"
	"encoding/json"

	"github.com/agamariel/domeda/internal/catalog"
	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/orders"
	"github.com/agamariel/domeda/internal/services"
)

type mockCatalogService struct {
	ListDishesFunc    func(ctx context.Context, filter services.DishFilter) ([]catalog.DishView, error)
	GetDishFunc       func(ctx context.Context, id int) (*services.DishDetails, error)
	DishReviewsFunc   func(ctx context.Context, id int) (*models.ReviewList, error)
	CreateDishFunc    func(ctx context.Context, req *models.DishRequest) (*models.Dish, error)
	ListCooksFunc     func(ctx context.Context, district string) ([]models.Cook, error)
	CookMapFunc       func(ctx context.Context, district string, availableOnly bool) ([]models.CookPoint, error)
	CartPreviewFunc   func(ctx context.Context, ids []int) ([]catalog.DishView, error)
	SubscriptionsFunc func(ctx context.Context) ([]json.RawMessage, error)
}

func (m *mockCatalogService) ListDishes(ctx context.Context, filter services.DishFilter) ([]catalog.DishView, error) {
	if m.ListDishesFunc != nil {
		return m.ListDishesFunc(ctx, filter)
	}
	return []catalog.DishView{}, nil
}

func (m *mockCatalogService) GetDish(ctx context.Context, id int) (*services.DishDetails, error) {
	if m.GetDishFunc != nil {
		return m.GetDishFunc(ctx, id)
	}
	return nil, services.ErrDishNotFound
}

func (m *mockCatalogService) DishReviews(ctx context.Context, id int) (*models.ReviewList, error) {
	if m.DishReviewsFunc != nil {
		return m.DishReviewsFunc(ctx, id)
	}
	return &models.ReviewList{Items: []models.Review{}}, nil
}

func (m *mockCatalogService) CreateDish(ctx context.Context, req *models.DishRequest) (*models.Dish, error) {
	if m.CreateDishFunc != nil {
		return m.CreateDishFunc(ctx, req)
	}
	return &models.Dish{ID: 1, Title: req.Title}, nil
}

func (m *mockCatalogService) ListCooks(ctx context.Context, district string) ([]models.Cook, error) {
	if m.ListCooksFunc != nil {
		return m.ListCooksFunc(ctx, district)
	}
	return []models.Cook{}, nil
}

func (m *mockCatalogService) CookMap(ctx context.Context, district string, availableOnly bool) ([]models.CookPoint, error) {
	if m.CookMapFunc != nil {
		return m.CookMapFunc(ctx, district, availableOnly)
	}
	return []models.CookPoint{}, nil
}

func (m *mockCatalogService) CartPreview(ctx context.Context, ids []int) ([]catalog.DishView, error) {
	if m.CartPreviewFunc != nil {
		return m.CartPreviewFunc(ctx, ids)
	}
	return []catalog.DishView{}, nil
}

func (m *mockCatalogService) Subscriptions(ctx context.Context) ([]json.RawMessage, error) {
	if m.SubscriptionsFunc != nil {
		return m.SubscriptionsFunc(ctx)
	}
	return []json.RawMessage{}, nil
}

type mockOrderService struct {
	CreateFunc       func(ctx context.Context, req *models.OrderRequest) (*models.Order, error)
	UpdateStatusFunc func(ctx context.Context, orderID string, req *models.StatusUpdateRequest) (*orders.View, error)
	ListFunc         func(ctx context.Context, filter models.OrderFilter) ([]orders.View, error)
	GetFunc          func(ctx context.Context, orderID string) (*orders.View, error)
	QRCodeFunc       func(ctx context.Context, orderID string, size int) ([]byte, error)
	PaymentsFunc     func(ctx context.Context) ([]models.Payment, error)
}

func (m *mockOrderService) CreateOrder(ctx context.Context, req *models.OrderRequest) (*models.Order, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return &models.Order{ID: "ORD-20260310-0001"}, nil
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, orderID string, req *models.StatusUpdateRequest) (*orders.View, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, orderID, req)
	}
	return nil, services.ErrOrderNotFound
}

func (m *mockOrderService) ListOrders(ctx context.Context, filter models.OrderFilter) ([]orders.View, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []orders.View{}, nil
}

func (m *mockOrderService) GetOrder(ctx context.Context, orderID string) (*orders.View, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, orderID)
	}
	return nil, services.ErrOrderNotFound
}

func (m *mockOrderService) OrderQRCode(ctx context.Context, orderID string, size int) ([]byte, error) {
	if m.QRCodeFunc != nil {
		return m.QRCodeFunc(ctx, orderID, size)
	}
	return nil, services.ErrOrderNotFound
}

func (m *mockOrderService) ListPayments(ctx context.Context) ([]models.Payment, error) {
	if m.PaymentsFunc != nil {
		return m.PaymentsFunc(ctx)
	}
	return []models.Payment{}, nil
}

type mockCheckoutService struct {
	CheckoutFunc func(ctx context.Context, req *models.CheckoutRequest) (*services.CheckoutResult, error)
}

func (m *mockCheckoutService) Checkout(ctx context.Context, req *models.CheckoutRequest) (*services.CheckoutResult, error) {
	if m.CheckoutFunc != nil {
		return m.CheckoutFunc(ctx, req)
	}
	return &services.CheckoutResult{}, nil
}

type mockReviewService struct {
	CreateFunc func(ctx context.Context, req *models.ReviewRequest) (*models.Review, error)
}

func (m *mockReviewService) CreateReview(ctx context.Context, req *models.ReviewRequest) (*models.Review, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return &models.Review{ID: "REV-20260310-0001"}, nil
}

type mockPartnerService struct {
	BookFunc   func(ctx context.Context, req *models.CourierBookingRequest) (*models.CourierBooking, error)
	VerifyFunc func(ctx context.Context, req *models.VerificationRequest) (*models.Verification, error)
}

func (m *mockPartnerService) BookCourier(ctx context.Context, req *models.CourierBookingRequest) (*models.CourierBooking, error) {
	if m.BookFunc != nil {
		return m.BookFunc(ctx, req)
	}
	return &models.CourierBooking{Status: "confirmed"}, nil
}

func (m *mockPartnerService) RequestVerification(ctx context.Context, req *models.VerificationRequest) (*models.Verification, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, req)
	}
	return &models.Verification{Status: "pending_review"}, nil
}
