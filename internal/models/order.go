package models

import (
	"encoding/json"
	"time"
)

// LineItem - позиция заказа.
type LineItem struct {
	DishID    int    `json:"dish_id"`
	DishTitle string `json:"dish_title"`
	CookID    int    `json:"cook_id"`
	Cook      string `json:"cook,omitempty"`
	Qty       int    `json:"qty"`
	UnitPrice int    `json:"unit_price"`
	Subtotal  int    `json:"subtotal"`
}

// StatusEvent - запись в истории статусов, после добавления не меняется.
type StatusEvent struct {
	Status OrderStatus `json:"status"`
	At     time.Time   `json:"at"`
	By     string      `json:"by"`
	Note   string      `json:"note"`
}

// PaymentSummary - краткая информация об оплате внутри заказа.
type PaymentSummary struct {
	Method     string `json:"method"`
	CardBrand  string `json:"card_brand"`
	CardMasked string `json:"card_masked"`
	Amount     int    `json:"amount"`
	Currency   string `json:"currency"`
}

// Order представляет заказ покупателя.
type Order struct {
	ID             string          `json:"id"`
	Items          []LineItem      `json:"items"`
	TotalPrice     int             `json:"total_price"`
	Districts      []string        `json:"districts,omitempty"`
	City           string          `json:"city,omitempty"`
	CustomerName   string          `json:"customer_name"`
	CustomerPhone  string          `json:"customer_phone"`
	Address        string          `json:"address"`
	Comment        string          `json:"comment,omitempty"`
	DeliveryMode   string          `json:"delivery_mode"`
	Status         OrderStatus     `json:"status"`
	StatusLabel    string          `json:"status_label,omitempty"`
	StatusHistory  []StatusEvent   `json:"status_history"`
	PaymentID      string          `json:"payment_id,omitempty"`
	PaymentStatus  string          `json:"payment_status,omitempty"`
	PaymentSummary *PaymentSummary `json:"payment_summary,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`

	// CookID заполнен только у заказов старого формата.
	CookID int `json:"cook_id,omitempty"`
}

// legacyOrder - поля заказа на одно блюдо, который создавался до корзины.
type legacyOrder struct {
	DishID    int    `json:"dish_id"`
	DishTitle string `json:"dish_title"`
	Cook      string `json:"cook"`
	Price     int    `json:"price"`
	Qty       int    `json:"qty"`
}

func (l legacyOrder) lineItems(cookID int) []LineItem {
	if l.DishID <= 0 {
		return nil
	}
	qty := max(1, l.Qty)
	return []LineItem{{
		DishID:    l.DishID,
		DishTitle: l.DishTitle,
		CookID:    cookID,
		Cook:      l.Cook,
		Qty:       qty,
		UnitPrice: l.Price,
		Subtotal:  l.Price * qty,
	}}
}

var orderFields = recordFields{
	"id":             stringField,
	"total_price":    intField,
	"districts":      stringsField,
	"city":           stringField,
	"customer_name":  stringField,
	"customer_phone": stringField,
	"address":        stringField,
	"comment":        stringField,
	"delivery_mode":  stringField,
	"status":         stringField,
	"payment_id":     stringField,
	"created_at":     timeField,
	"completed_at":   timeField,
	"cancelled_at":   timeField,
	"cook_id":        intField,
	"dish_id":        intField,
	"dish_title":     stringField,
	"cook":           stringField,
	"price":          intField,
	"qty":            intField,
}

var lineItemFields = recordFields{
	"dish_id":    intField,
	"dish_title": stringField,
	"cook_id":    intField,
	"cook":       stringField,
	"qty":        intField,
	"unit_price": intField,
	"subtotal":   intField,
}

var statusEventFields = recordFields{
	"status": stringField,
	"at":     timeField,
	"by":     stringField,
	"note":   stringField,
}

func (l *LineItem) UnmarshalJSON(data []byte) error {
	data, err := normalizeRecord(data, lineItemFields)
	if err != nil {
		return err
	}
	type plain LineItem
	return json.Unmarshal(data, (*plain)(l))
}

func (e *StatusEvent) UnmarshalJSON(data []byte) error {
	data, err := normalizeRecord(data, statusEventFields)
	if err != nil {
		return err
	}
	type plain StatusEvent
	return json.Unmarshal(data, (*plain)(e))
}

// UnmarshalJSON сводит оба формата хранения к списку позиций.
func (o *Order) UnmarshalJSON(data []byte) error {
	data, err := normalizeRecord(data, orderFields)
	if err != nil {
		return err
	}
	type plain Order
	aux := struct {
		*plain
		legacyOrder
	}{plain: (*plain)(o)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(o.Items) == 0 {
		o.Items = aux.legacyOrder.lineItems(o.CookID)
	}
	return nil
}

// OrderRequest - заказ одного блюда без оплаты.
type OrderRequest struct {
	DishID        *int
	Qty           int
	DeliveryMode  string
	City          string
	CustomerName  string
	CustomerPhone string
	Address       string
	Comment       string
}

// UnmarshalJSON разбирает запрос; отсутствующий dish_id остаётся nil.
func (r *OrderRequest) UnmarshalJSON(data []byte) error {
	*r = OrderRequest{Qty: 1}
	raw, ok := decodeObject(data)
	if !ok {
		return nil
	}
	if value, present := raw["dish_id"]; present && value != nil {
		id := looseInt(value, -1)
		r.DishID = &id
	}
	r.Qty = looseInt(raw["qty"], 1)
	r.DeliveryMode = looseString(raw["delivery_mode"])
	r.City = looseString(raw["city"])
	r.CustomerName = looseString(raw["customer_name"])
	r.CustomerPhone = looseString(raw["customer_phone"])
	r.Address = looseString(raw["address"])
	r.Comment = looseString(raw["comment"])
	return nil
}

// StatusUpdateRequest - запрос на смену статуса заказа.
type StatusUpdateRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
	Note   string `json:"note"`
}

func (r *StatusUpdateRequest) UnmarshalJSON(data []byte) error {
	*r = StatusUpdateRequest{}
	raw, ok := decodeObject(data)
	if !ok {
		return nil
	}
	r.Status = looseString(raw["status"])
	r.Actor = looseString(raw["actor"])
	r.Note = looseString(raw["note"])
	return nil
}

// OrderFilter - фильтры списка заказов.
type OrderFilter struct {
	Role          string
	CookID        int
	Status        string
	CustomerPhone string
	CustomerName  string
	OrderID       string
}
