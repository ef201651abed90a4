package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"

	"github.com/agamariel/domeda/internal/catalog"
	"github.com/agamariel/domeda/internal/events"
	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/orders"
	"github.com/agamariel/domeda/internal/storage"
	"github.com/agamariel/domeda/internal/utils"
)

const (
	customerActor     = "customer"
	orderCreatedNote  = "Заказ создан"
	DefaultQRCodeSize = 256
)

// OrderService определяет интерфейс работы с заказами.
type OrderService interface {
	CreateOrder(ctx context.Context, req *models.OrderRequest) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID string, req *models.StatusUpdateRequest) (*orders.View, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]orders.View, error)
	GetOrder(ctx context.Context, orderID string) (*orders.View, error)
	OrderQRCode(ctx context.Context, orderID string, size int) ([]byte, error)
	ListPayments(ctx context.Context) ([]models.Payment, error)
}

// OrderServiceImpl реализует OrderService.
type OrderServiceImpl struct {
	store         CollectionStore
	publisher     events.Publisher
	logger        *log.Logger
	clock         Clock
	publicBaseURL string
}

// NewOrderService создаёт новый сервис заказов. publicBaseURL используется
// в ссылке на страницу отзыва внутри QR-кода.
func NewOrderService(store CollectionStore, publisher events.Publisher, logger *log.Logger, clock Clock, publicBaseURL string) *OrderServiceImpl {
	return &OrderServiceImpl{
		store:         store,
		publisher:     publisher,
		logger:        logger,
		clock:         clock,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// CreateOrder оформляет заказ одного блюда без оплаты.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, req *models.OrderRequest) (*models.Order, error) {
	if req.DishID == nil {
		return nil, ErrDishIDRequired
	}
	if *req.DishID <= 0 {
		return nil, ErrDishIDInvalid
	}
	now := s.clock.now()

	var order models.Order
	err := s.store.Update(ctx, func(tx *storage.Tx) error {
		dishes, err := tx.Dishes()
		if err != nil {
			return err
		}
		var dish *models.Dish
		for i := range dishes {
			if dishes[i].ID == *req.DishID {
				dish = &dishes[i]
				break
			}
		}
		if dish == nil {
			return ErrDishNotFound
		}
		if !catalog.IsAvailable(dish, now) {
			return ErrDishUnavailable
		}

		mode := strings.TrimSpace(req.DeliveryMode)
		if mode == "" {
			mode = models.DeliveryPickup
			if len(dish.DeliveryModes) > 0 {
				mode = dish.DeliveryModes[0]
			}
		}
		if !dish.HasDeliveryMode(mode) {
			return ErrDeliveryModeNotAvailable
		}
		if req.Qty <= 0 {
			return ErrQtyInvalid
		}
		if req.Qty > dish.PortionsAvailable {
			return ErrDishStockNotEnough
		}
		dish.PortionsAvailable = max(0, dish.PortionsAvailable-req.Qty)

		existing, err := tx.Orders()
		if err != nil {
			return err
		}

		order = models.Order{
			ID: nextOrderID(existing, now),
			Items: []models.LineItem{{
				DishID:    dish.ID,
				DishTitle: dish.Title,
				CookID:    dish.CookID,
				Cook:      dish.Cook,
				Qty:       req.Qty,
				UnitPrice: dish.Price,
				Subtotal:  dish.Price * req.Qty,
			}},
			TotalPrice:    dish.Price * req.Qty,
			Districts:     sortedUnique([]string{dish.District}),
			City:          withDefault(req.City, defaultCity),
			CustomerName:  withDefault(req.CustomerName, defaultCustomerName),
			CustomerPhone: strings.TrimSpace(req.CustomerPhone),
			Address:       strings.TrimSpace(req.Address),
			Comment:       strings.TrimSpace(req.Comment),
			DeliveryMode:  mode,
			Status:        models.OrderStatusNew,
			StatusLabel:   models.OrderStatusNew.Label(),
			StatusHistory: []models.StatusEvent{{
				Status: models.OrderStatusNew,
				At:     now,
				By:     customerActor,
				Note:   orderCreatedNote,
			}},
			CreatedAt: now,
		}

		if err := tx.SaveDishes(dishes); err != nil {
			return err
		}
		return tx.SaveOrders(append(existing, order))
	}, storage.CollectionDishes, storage.CollectionOrders)
	if err != nil {
		return nil, err
	}

	s.logger.Printf("orders: order %s created for dish %d", order.ID, *req.DishID)
	s.publisher.Publish(ctx, events.Event{
		Type:       events.OrderCreated,
		OrderID:    order.ID,
		Status:     order.Status,
		Actor:      customerActor,
		TotalPrice: order.TotalPrice,
		CookIDs:    orders.CookIDs(&order),
		At:         now,
	})
	return &order, nil
}

// UpdateStatus переводит заказ в новый статус. Повторная установка текущего
// статуса ничего не меняет.
func (s *OrderServiceImpl) UpdateStatus(ctx context.Context, orderID string, req *models.StatusUpdateRequest) (*orders.View, error) {
	next, ok := models.ParseOrderStatus(req.Status)
	if !ok {
		return nil, orders.ErrStatusInvalid
	}
	now := s.clock.now()

	var (
		view     orders.View
		previous models.OrderStatus
		changed  bool
	)
	err := s.store.Update(ctx, func(tx *storage.Tx) error {
		list, err := tx.Orders()
		if err != nil {
			return err
		}
		i := findOrder(list, orderID)
		if i < 0 {
			return ErrOrderNotFound
		}

		previous = models.NormalizeOrderStatus(list[i].Status)
		changed, err = orders.Apply(&list[i], next, req.Actor, req.Note, now)
		if err != nil {
			return err
		}
		view = orders.Enrich(list[i])
		if !changed {
			return nil
		}
		return tx.SaveOrders(list)
	}, storage.CollectionOrders)
	if err != nil {
		return nil, err
	}

	if changed {
		last := view.StatusHistory[len(view.StatusHistory)-1]
		s.logger.Printf("orders: order %s %s -> %s by %s", orderID, previous, next, last.By)
		s.publisher.Publish(ctx, events.Event{
			Type:           events.OrderStatusChanged,
			OrderID:        orderID,
			Status:         next,
			PreviousStatus: previous,
			Actor:          last.By,
			CookIDs:        view.CookIDs,
			At:             now,
		})
	}
	return &view, nil
}

// ListOrders возвращает заказы по фильтру, новые первыми.
func (s *OrderServiceImpl) ListOrders(ctx context.Context, filter models.OrderFilter) ([]orders.View, error) {
	list, err := s.store.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	views := orders.EnrichAll(list)

	status := strings.ToLower(strings.TrimSpace(filter.Status))
	requested, known := models.ParseOrderStatus(status)
	if status != "" && status != "all" && !known {
		return []orders.View{}, nil
	}

	phone := utils.DigitsOnly(strings.TrimSpace(filter.CustomerPhone))
	name := strings.ToLower(strings.TrimSpace(filter.CustomerName))
	orderID := strings.TrimSpace(filter.OrderID)

	result := make([]orders.View, 0, len(views))
	for i, view := range views {
		switch filter.Role {
		case "cook":
			if filter.CookID > 0 && !orders.HasCook(&list[i], filter.CookID) {
				continue
			}
		case "customer":
			if strings.TrimSpace(filter.CustomerPhone) != "" &&
				(phone == "" || !strings.Contains(utils.DigitsOnly(view.CustomerPhone), phone)) {
				continue
			}
			if name != "" && !strings.Contains(strings.ToLower(view.CustomerName), name) {
				continue
			}
		}
		if orderID != "" && view.ID != orderID {
			continue
		}
		if known && view.Status != requested {
			continue
		}
		result = append(result, view)
	}

	sortByCreatedDesc(result, func(v orders.View) time.Time { return v.CreatedAt })
	return result, nil
}

// GetOrder возвращает заказ по идентификатору.
func (s *OrderServiceImpl) GetOrder(ctx context.Context, orderID string) (*orders.View, error) {
	list, err := s.store.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	i := findOrder(list, orderID)
	if i < 0 {
		return nil, ErrOrderNotFound
	}
	view := orders.Enrich(list[i])
	return &view, nil
}

// ReviewURL возвращает ссылку на страницу отзыва о заказе.
func (s *OrderServiceImpl) ReviewURL(orderID string) string {
	return s.publicBaseURL + "/review.html?order_id=" + url.QueryEscape(orderID)
}

// OrderQRCode возвращает PNG с QR-кодом ссылки на отзыв.
func (s *OrderServiceImpl) OrderQRCode(ctx context.Context, orderID string, size int) ([]byte, error) {
	list, err := s.store.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	if findOrder(list, orderID) < 0 {
		return nil, ErrOrderNotFound
	}
	if size <= 0 {
		size = DefaultQRCodeSize
	}

	png, err := qrcode.Encode(s.ReviewURL(orderID), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// ListPayments возвращает платежи, новые первыми.
func (s *OrderServiceImpl) ListPayments(ctx context.Context) ([]models.Payment, error) {
	payments, err := s.store.Payments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	sortByCreatedDesc(payments, func(p models.Payment) time.Time { return p.CreatedAt })
	return payments, nil
}

func findOrder(list []models.Order, orderID string) int {
	orderID = strings.TrimSpace(orderID)
	for i := range list {
		if list[i].ID == orderID {
			return i
		}
	}
	return -1
}
