package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/agamariel/domeda/internal/catalog"
	"github.com/agamariel/domeda/internal/events"
	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/orders"
	"github.com/agamariel/domeda/internal/payment"
	"github.com/agamariel/domeda/internal/storage"
	"github.com/agamariel/domeda/internal/utils"
)

const (
	orderIDPrefix   = "ORD"
	paymentIDPrefix = "PAY"

	defaultCity         = "Москва"
	defaultCustomerName = "Гость"
	paymentActor        = "payment"
	paymentNote         = "Оплата подтверждена"
)

// CartLine - проверенная строка корзины.
type CartLine struct {
	Dish models.Dish
	Qty  int
}

// CheckoutResult - созданные заказ и платёж.
type CheckoutResult struct {
	Order   *models.Order   `json:"order"`
	Payment *models.Payment `json:"payment"`
}

// CheckoutService определяет интерфейс оформления заказа с оплатой.
type CheckoutService interface {
	Checkout(ctx context.Context, req *models.CheckoutRequest) (*CheckoutResult, error)
}

// CheckoutServiceImpl реализует CheckoutService.
type CheckoutServiceImpl struct {
	store     CollectionStore
	gateway   payment.Gateway
	publisher events.Publisher
	logger    *log.Logger
	clock     Clock
}

// NewCheckoutService создаёт новый сервис оформления.
func NewCheckoutService(store CollectionStore, gateway payment.Gateway, publisher events.Publisher, logger *log.Logger, clock Clock) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		store:     store,
		gateway:   gateway,
		publisher: publisher,
		logger:    logger,
		clock:     clock,
	}
}

// ValidateCart проверяет корзину по текущему меню. Функция ничего не меняет,
// повторный вызов на тех же данных даёт тот же результат.
func ValidateCart(items []models.CartItem, dishes []models.Dish, now time.Time) ([]CartLine, error) {
	if len(items) == 0 {
		return nil, ErrItemsRequired
	}

	byID := make(map[int]*models.Dish, len(dishes))
	for i := range dishes {
		if dishes[i].ID > 0 {
			byID[dishes[i].ID] = &dishes[i]
		}
	}

	requested := make(map[int]int, len(items))
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		if item.DishID <= 0 || item.Qty <= 0 {
			return nil, ErrItemsInvalid
		}
		dish, ok := byID[item.DishID]
		if !ok {
			return nil, ErrDishNotFound
		}
		if !catalog.IsAvailable(dish, now) {
			return nil, ErrDishUnavailable
		}
		// Повторяющиеся строки одного блюда проверяются по суммарному количеству.
		requested[dish.ID] += item.Qty
		if requested[dish.ID] > dish.PortionsAvailable {
			return nil, ErrDishStockNotEnough
		}
		lines = append(lines, CartLine{Dish: *dish, Qty: item.Qty})
	}
	return lines, nil
}

type checkoutPlan struct {
	lines []CartLine
	items []models.LineItem
	total int
	mode  string
	auth  *payment.Authorization
}

// plan проверяет корзину, способ получения и оплату. Порядок проверок
// определяет, какой код ошибки получит клиент.
func (s *CheckoutServiceImpl) plan(ctx context.Context, req *models.CheckoutRequest, dishes []models.Dish, now time.Time) (*checkoutPlan, error) {
	lines, err := ValidateCart(req.Items, dishes, now)
	if err != nil {
		return nil, err
	}

	mode := strings.TrimSpace(req.DeliveryMode)
	if mode == "" {
		mode = models.DeliveryPickup
	}
	if !models.IsDeliveryMode(mode) {
		return nil, ErrDeliveryModeInvalid
	}

	p := &checkoutPlan{lines: lines, mode: mode, items: make([]models.LineItem, 0, len(lines))}
	for _, line := range lines {
		if !line.Dish.HasDeliveryMode(mode) {
			return nil, ErrDeliveryModeNotAvailable
		}
		subtotal := line.Dish.Price * line.Qty
		p.total += subtotal
		p.items = append(p.items, models.LineItem{
			DishID:    line.Dish.ID,
			DishTitle: line.Dish.Title,
			CookID:    line.Dish.CookID,
			Cook:      line.Dish.Cook,
			Qty:       line.Qty,
			UnitPrice: line.Dish.Price,
			Subtotal:  subtotal,
		})
	}

	p.auth, err = s.gateway.Authorize(ctx, req.Payment, p.total)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Checkout оформляет корзину: проверяет её, списывает остатки, создаёт заказ
// и платёж. Проверка повторяется под блокировкой коллекций, поэтому
// параллельные оформления не продают больше, чем есть.
func (s *CheckoutServiceImpl) Checkout(ctx context.Context, req *models.CheckoutRequest) (*CheckoutResult, error) {
	now := s.clock.now()

	snapshot, err := s.store.Dishes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dishes: %w", err)
	}
	if _, err := s.plan(ctx, req, snapshot, now); err != nil {
		return nil, err
	}

	var result *CheckoutResult
	err = s.store.Update(ctx, func(tx *storage.Tx) error {
		dishes, err := tx.Dishes()
		if err != nil {
			return err
		}
		p, err := s.plan(ctx, req, dishes, now)
		if err != nil {
			return err
		}

		existingOrders, err := tx.Orders()
		if err != nil {
			return err
		}
		existingPayments, err := tx.Payments()
		if err != nil {
			return err
		}

		decrementStock(dishes, p.lines)

		order := s.newOrder(req, p, nextOrderID(existingOrders, now), now)
		pay := newPayment(p.auth, order.ID, nextPaymentID(existingPayments, now), now)
		order.PaymentID = pay.ID
		order.PaymentStatus = pay.Status
		order.PaymentSummary = pay.Summary()

		if err := tx.SaveDishes(dishes); err != nil {
			return err
		}
		if err := tx.SaveOrders(append(existingOrders, *order)); err != nil {
			return err
		}
		if err := tx.SavePayments(append(existingPayments, *pay)); err != nil {
			return err
		}
		result = &CheckoutResult{Order: order, Payment: pay}
		return nil
	}, storage.CollectionDishes, storage.CollectionOrders, storage.CollectionPayments)
	if err != nil {
		var domainErr *models.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, fmt.Errorf("checkout: %w", err)
	}

	s.logger.Printf("checkout: order %s paid %d %s with %s", result.Order.ID, result.Payment.Amount, result.Payment.Currency, result.Payment.CardMasked)
	s.publisher.Publish(ctx, events.Event{
		Type:       events.OrderCreated,
		OrderID:    result.Order.ID,
		Status:     result.Order.Status,
		Actor:      paymentActor,
		TotalPrice: result.Order.TotalPrice,
		CookIDs:    orders.CookIDs(result.Order),
		PaymentID:  result.Payment.ID,
		At:         now,
	})
	return result, nil
}

func (s *CheckoutServiceImpl) newOrder(req *models.CheckoutRequest, p *checkoutPlan, id string, now time.Time) *models.Order {
	return &models.Order{
		ID:            id,
		Items:         p.items,
		TotalPrice:    p.total,
		Districts:     districts(p.lines),
		City:          withDefault(req.City, defaultCity),
		CustomerName:  withDefault(req.CustomerName, defaultCustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Address:       strings.TrimSpace(req.Address),
		Comment:       strings.TrimSpace(req.Comment),
		DeliveryMode:  p.mode,
		Status:        models.OrderStatusPaid,
		StatusLabel:   models.OrderStatusPaid.Label(),
		StatusHistory: []models.StatusEvent{{
			Status: models.OrderStatusPaid,
			At:     now,
			By:     paymentActor,
			Note:   paymentNote,
		}},
		CreatedAt: now,
	}
}

func newPayment(auth *payment.Authorization, orderID, id string, now time.Time) *models.Payment {
	return &models.Payment{
		ID:         id,
		OrderID:    orderID,
		Status:     models.PaymentStatusCaptured,
		Provider:   models.PaymentProviderMock,
		Method:     auth.Method,
		CardBrand:  auth.CardBrand,
		CardMasked: auth.CardMasked,
		CardLast4:  auth.CardLast4,
		Holder:     auth.Holder,
		Amount:     auth.Amount,
		Currency:   auth.Currency,
		CreatedAt:  now,
	}
}

// decrementStock списывает остатки блюд, не опуская их ниже нуля.
func decrementStock(dishes []models.Dish, lines []CartLine) {
	index := make(map[int]int, len(dishes))
	for i := range dishes {
		index[dishes[i].ID] = i
	}
	for _, line := range lines {
		if i, ok := index[line.Dish.ID]; ok {
			dishes[i].PortionsAvailable = max(0, dishes[i].PortionsAvailable-line.Qty)
		}
	}
}

func districts(lines []CartLine) []string {
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		names = append(names, line.Dish.District)
	}
	return sortedUnique(names)
}

func nextOrderID(list []models.Order, now time.Time) string {
	ids := make([]string, 0, len(list))
	for _, order := range list {
		ids = append(ids, order.ID)
	}
	return utils.NextSequenceID(orderIDPrefix, ids, now)
}

func nextPaymentID(list []models.Payment, now time.Time) string {
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	return utils.NextSequenceID(paymentIDPrefix, ids, now)
}

func withDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}

func sortByCreatedDesc[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
