package models

import (
	"encoding/json"
	"math"
	"time"
)

const (
	DeliveryPickup  = "pickup"
	DeliveryCook    = "cook"
	DeliveryCourier = "courier"
)

// DefaultPortionsAvailable используется для записей без остатка.
const DefaultPortionsAvailable = 8

// IsDeliveryMode проверяет, что способ получения поддерживается.
func IsDeliveryMode(mode string) bool {
	switch mode {
	case DeliveryPickup, DeliveryCook, DeliveryCourier:
		return true
	}
	return false
}

// Dish представляет блюдо домашнего повара.
type Dish struct {
	ID                int        `json:"id"`
	CookID            int        `json:"cook_id"`
	Title             string     `json:"title"`
	Cook              string     `json:"cook,omitempty"`
	District          string     `json:"district,omitempty"`
	Rating            float64    `json:"rating"`
	ReviewsCount      int        `json:"reviews_count"`
	Price             int        `json:"price"`
	Tags              []string   `json:"tags"`
	DeliveryModes     []string   `json:"delivery_modes"`
	Wait              string     `json:"wait,omitempty"`
	Description       string     `json:"description,omitempty"`
	Portion           string     `json:"portion,omitempty"`
	PortionGrams      int        `json:"portion_grams,omitempty"`
	ImageURL          string     `json:"image_url,omitempty"`
	PortionsAvailable int        `json:"portions_available"`
	AvailableFrom     string     `json:"available_from"`
	AvailableUntil    string     `json:"available_until"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
}

var dishFields = recordFields{
	"id":                 intField,
	"cook_id":            intField,
	"title":              stringField,
	"cook":               stringField,
	"district":           stringField,
	"rating":             floatField,
	"reviews_count":      intField,
	"price":              intField,
	"tags":               stringsField,
	"delivery_modes":     stringsField,
	"delivery":           stringsField,
	"wait":               stringField,
	"description":        stringField,
	"portion":            stringField,
	"portion_grams":      intField,
	"image_url":          stringField,
	"portions_available": intField,
	"available_from":     stringField,
	"available_until":    stringField,
	"created_at":         timeField,
}

// UnmarshalJSON понимает старый ключ "delivery", отсутствующий остаток
// и числа, записанные строками.
func (d *Dish) UnmarshalJSON(data []byte) error {
	data, err := normalizeRecord(data, dishFields)
	if err != nil {
		return err
	}
	type plain Dish
	aux := struct {
		*plain
		Delivery          []string `json:"delivery"`
		PortionsAvailable *int     `json:"portions_available"`
	}{plain: (*plain)(d)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(d.DeliveryModes) == 0 {
		d.DeliveryModes = aux.Delivery
	}
	d.PortionsAvailable = DefaultPortionsAvailable
	if aux.PortionsAvailable != nil {
		d.PortionsAvailable = max(0, *aux.PortionsAvailable)
	}
	return nil
}

// HasDeliveryMode сообщает, доступен ли способ получения для блюда.
func (d *Dish) HasDeliveryMode(mode string) bool {
	for _, m := range d.DeliveryModes {
		if m == mode {
			return true
		}
	}
	return false
}

// DishRequest - данные для публикации нового блюда.
type DishRequest struct {
	Title             string   `json:"title" form:"title"`
	Description       string   `json:"description" form:"description"`
	CookID            int      `json:"cook_id" form:"cook_id"`
	Price             int      `json:"price" form:"price"`
	PortionGrams      int      `json:"portion_grams" form:"portion_grams"`
	WaitMinutes       *int     `json:"wait_minutes" form:"wait_minutes"`
	PortionsAvailable int      `json:"portions_available" form:"portions_available"`
	AvailableFrom     string   `json:"available_from" form:"available_from"`
	AvailableUntil    string   `json:"available_until" form:"available_until"`
	Tags              []string `json:"tags" form:"tags"`
	Delivery          []string `json:"delivery" form:"delivery"`
	ImageURL          string   `json:"image_url" form:"image_url"`
}

// UnmarshalJSON допускает числа строками. Нечисловое время ожидания
// остаётся nil, как и в форме.
func (r *DishRequest) UnmarshalJSON(data []byte) error {
	*r = DishRequest{CookID: -1}
	raw, ok := decodeObject(data)
	if !ok {
		return nil
	}
	r.Title = looseString(raw["title"])
	r.Description = looseString(raw["description"])
	r.CookID = looseInt(raw["cook_id"], -1)
	r.Price = looseInt(raw["price"], 0)
	r.PortionGrams = looseInt(raw["portion_grams"], 0)
	r.PortionsAvailable = looseInt(raw["portions_available"], 0)
	r.AvailableFrom = looseString(raw["available_from"])
	r.AvailableUntil = looseString(raw["available_until"])
	r.Tags = looseStrings(raw["tags"])
	r.Delivery = looseStrings(raw["delivery"])
	r.ImageURL = looseString(raw["image_url"])
	if value, present := raw["wait_minutes"]; present {
		if wait := looseInt(value, math.MinInt); wait != math.MinInt {
			r.WaitMinutes = &wait
		}
	}
	return nil
}
