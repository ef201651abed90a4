package models

import "strings"

// OrderStatus описывает этап жизненного цикла заказа.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusAccepted   OrderStatus = "accepted"
	OrderStatusCooking    OrderStatus = "cooking"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatusFlow задаёт порядок отображения статусов.
var OrderStatusFlow = []OrderStatus{
	OrderStatusNew,
	OrderStatusPaid,
	OrderStatusAccepted,
	OrderStatusCooking,
	OrderStatusReady,
	OrderStatusDelivering,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusNew:        "Новый",
	OrderStatusPaid:       "Оплачен",
	OrderStatusAccepted:   "Принят",
	OrderStatusCooking:    "Готовится",
	OrderStatusReady:      "Готов к выдаче",
	OrderStatusDelivering: "В пути",
	OrderStatusCompleted:  "Завершен",
	OrderStatusCancelled:  "Отменен",
}

// ParseOrderStatus приводит строку к известному статусу.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(value)))
	_, ok := orderStatusLabels[status]
	return status, ok
}

// NormalizeOrderStatus возвращает известный статус или new.
func NormalizeOrderStatus(value OrderStatus) OrderStatus {
	if status, ok := ParseOrderStatus(string(value)); ok {
		return status
	}
	return OrderStatusNew
}

// Label возвращает человекочитаемое название статуса.
func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Terminal сообщает, что из статуса нет переходов.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}
