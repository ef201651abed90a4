package orders

import (
	"sort"

	"github.com/agamariel/domeda/internal/models"
)

// EventView - событие истории с подписью статуса.
type EventView struct {
	models.StatusEvent
	StatusLabel string `json:"status_label"`
}

// View - заказ в том виде, в каком его отдаёт API.
type View struct {
	models.Order
	ItemCount     int                  `json:"item_count"`
	CookIDs       []int                `json:"cook_ids"`
	StatusLabel   string               `json:"status_label"`
	StatusHistory []EventView          `json:"status_history"`
	NextStatuses  []models.OrderStatus `json:"next_statuses"`
}

// Enrich строит представление заказа. Сохранённый заказ не меняется.
func Enrich(order models.Order) View {
	if order.Items == nil {
		order.Items = []models.LineItem{}
	}
	order.Status = models.NormalizeOrderStatus(order.Status)
	order.TotalPrice = TotalPrice(&order)

	history := History(&order)
	events := make([]EventView, 0, len(history))
	for _, event := range history {
		events = append(events, EventView{StatusEvent: event, StatusLabel: event.Status.Label()})
	}
	order.StatusHistory = nil

	itemCount := 0
	for _, item := range order.Items {
		itemCount += max(1, item.Qty)
	}

	return View{
		Order:         order,
		ItemCount:     itemCount,
		CookIDs:       CookIDs(&order),
		StatusLabel:   order.Status.Label(),
		StatusHistory: events,
		NextStatuses:  NextStatuses(&order),
	}
}

// EnrichAll применяет Enrich к каждому заказу.
func EnrichAll(list []models.Order) []View {
	views := make([]View, 0, len(list))
	for _, order := range list {
		views = append(views, Enrich(order))
	}
	return views
}

// TotalPrice возвращает сохранённую сумму, а если она не положительная,
// пересчитывает её по позициям.
func TotalPrice(order *models.Order) int {
	if order.TotalPrice > 0 {
		return order.TotalPrice
	}
	total := 0
	for _, item := range order.Items {
		subtotal := item.Subtotal
		if subtotal <= 0 {
			subtotal = max(1, item.Qty) * item.UnitPrice
		}
		total += subtotal
	}
	return total
}

// CookIDs возвращает отсортированные идентификаторы поваров заказа.
func CookIDs(order *models.Order) []int {
	seen := make(map[int]struct{})
	ids := []int{}
	for _, item := range order.Items {
		if item.CookID <= 0 {
			continue
		}
		if _, ok := seen[item.CookID]; ok {
			continue
		}
		seen[item.CookID] = struct{}{}
		ids = append(ids, item.CookID)
	}
	if len(ids) == 0 && order.CookID > 0 {
		ids = append(ids, order.CookID)
	}
	sort.Ints(ids)
	return ids
}

// HasCook сообщает, участвует ли повар в заказе.
func HasCook(order *models.Order, cookID int) bool {
	for _, id := range CookIDs(order) {
		if id == cookID {
			return true
		}
	}
	return false
}
