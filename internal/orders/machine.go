// Package orders управляет жизненным циклом заказа: переходами статусов,
// историей и представлением заказа для ответа API.
package orders

import (
	"strings"
	"time"

	"github.com/agamariel/domeda/internal/models"
)

var (
	ErrStatusInvalid           = models.Invalid("status_invalid")
	ErrStatusTransitionInvalid = models.Invalid("status_transition_invalid")
)

// DefaultActor подставляется, когда автор смены статуса не указан.
const DefaultActor = "cook"

const systemActor = "system"

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusNew:        {models.OrderStatusAccepted, models.OrderStatusCancelled},
	models.OrderStatusPaid:       {models.OrderStatusAccepted, models.OrderStatusCancelled},
	models.OrderStatusAccepted:   {models.OrderStatusCooking, models.OrderStatusCancelled},
	models.OrderStatusCooking:    {models.OrderStatusReady, models.OrderStatusCancelled},
	models.OrderStatusReady:      {models.OrderStatusDelivering, models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusDelivering: {models.OrderStatusCompleted, models.OrderStatusCancelled},
}

// TransitionError сообщает о запрещённом переходе.
type TransitionError struct {
	Current   models.OrderStatus
	Requested models.OrderStatus
}

func (e *TransitionError) Error() string {
	return ErrStatusTransitionInvalid.Code
}

func (e *TransitionError) Unwrap() error {
	return ErrStatusTransitionInvalid
}

func allowed(order *models.Order, current, next models.OrderStatus) bool {
	if current.Terminal() {
		return false
	}
	// Самовывоз не может быть "в пути".
	if next == models.OrderStatusDelivering && current == models.OrderStatusReady &&
		strings.TrimSpace(order.DeliveryMode) == models.DeliveryPickup {
		return false
	}
	for _, candidate := range transitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// NextStatuses возвращает доступные статусы в порядке отображения.
func NextStatuses(order *models.Order) []models.OrderStatus {
	current := models.NormalizeOrderStatus(order.Status)
	next := make([]models.OrderStatus, 0, 3)
	for _, status := range models.OrderStatusFlow {
		if status != current && allowed(order, current, status) {
			next = append(next, status)
		}
	}
	return next
}

// History возвращает историю статусов в нормализованном виде. Для заказов
// без истории создаётся одно начальное событие.
func History(order *models.Order) []models.StatusEvent {
	history := make([]models.StatusEvent, 0, len(order.StatusHistory)+1)
	for _, event := range order.StatusHistory {
		event.Status = models.NormalizeOrderStatus(event.Status)
		if event.At.IsZero() {
			event.At = order.CreatedAt
		}
		if strings.TrimSpace(event.By) == "" {
			event.By = systemActor
		}
		history = append(history, event)
	}
	if len(history) > 0 {
		return history
	}
	return append(history, models.StatusEvent{
		Status: models.NormalizeOrderStatus(order.Status),
		At:     order.CreatedAt,
		By:     systemActor,
	})
}

// Apply переводит заказ в статус next. Возвращает false, если статус не изменился.
func Apply(order *models.Order, next models.OrderStatus, actor, note string, now time.Time) (bool, error) {
	current := models.NormalizeOrderStatus(order.Status)
	if next == current {
		return false, nil
	}
	if !allowed(order, current, next) {
		return false, &TransitionError{Current: current, Requested: next}
	}

	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = DefaultActor
	}

	order.StatusHistory = append(History(order), models.StatusEvent{
		Status: next,
		At:     now,
		By:     actor,
		Note:   strings.TrimSpace(note),
	})
	order.Status = next
	order.StatusLabel = next.Label()

	switch next {
	case models.OrderStatusCompleted:
		order.CompletedAt = &now
	case models.OrderStatusCancelled:
		order.CancelledAt = &now
	}
	return true, nil
}
