// Package events публикует события жизненного цикла заказов и отзывов.
package events

import (
	"context"
	"time"

	"github.com/agamariel/domeda/internal/models"
)

// Type - тип события.
type Type string

const (
	OrderCreated       Type = "order_created"
	OrderStatusChanged Type = "order_status_changed"
	ReviewCreated      Type = "review_created"
)

// Event - сообщение о зафиксированном изменении.
type Event struct {
	Type           Type               `json:"type"`
	OrderID        string             `json:"order_id,omitempty"`
	Status         models.OrderStatus `json:"status,omitempty"`
	PreviousStatus models.OrderStatus `json:"previous_status,omitempty"`
	Actor          string             `json:"actor,omitempty"`
	TotalPrice     int                `json:"total_price,omitempty"`
	CookIDs        []int              `json:"cook_ids,omitempty"`
	PaymentID      string             `json:"payment_id,omitempty"`
	ReviewID       string             `json:"review_id,omitempty"`
	DishID         int                `json:"dish_id,omitempty"`
	Rating         float64            `json:"rating,omitempty"`
	At             time.Time          `json:"at"`
}

// Key возвращает ключ партиционирования: события одного заказа идут по порядку.
func (e Event) Key() string {
	if e.OrderID != "" {
		return e.OrderID
	}
	return e.ReviewID
}

// Publisher публикует события. Ошибки доставки не возвращаются вызывающему:
// изменение уже зафиксировано в хранилище.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// NopPublisher отбрасывает события.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
