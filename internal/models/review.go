package models

import (
	"encoding/json"
	"time"
)

// Review - отзыв покупателя о блюде.
type Review struct {
	ID           string    `json:"id"`
	DishID       int       `json:"dish_id"`
	CookID       int       `json:"cook_id"`
	OrderID      string    `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	Rating       float64   `json:"rating"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
}

var reviewFields = recordFields{
	"id":            stringField,
	"dish_id":       intField,
	"cook_id":       intField,
	"order_id":      stringField,
	"customer_name": stringField,
	"rating":        floatField,
	"text":          stringField,
	"created_at":    timeField,
}

func (r *Review) UnmarshalJSON(data []byte) error {
	data, err := normalizeRecord(data, reviewFields)
	if err != nil {
		return err
	}
	type plain Review
	return json.Unmarshal(data, (*plain)(r))
}

// ReviewRequest - запрос на создание отзыва.
type ReviewRequest struct {
	DishID       int
	Rating       float64
	CustomerName string
	Text         string
	OrderID      string
}

// UnmarshalJSON допускает строковые dish_id и rating.
func (r *ReviewRequest) UnmarshalJSON(data []byte) error {
	*r = ReviewRequest{DishID: -1}
	raw, ok := decodeObject(data)
	if !ok {
		return nil
	}
	r.DishID = looseInt(raw["dish_id"], -1)
	r.Rating = looseFloat(raw["rating"], 0)
	r.CustomerName = looseString(raw["customer_name"])
	r.Text = looseString(raw["text"])
	r.OrderID = looseString(raw["order_id"])
	return nil
}

// ReviewList - отзывы блюда со средней оценкой.
type ReviewList struct {
	Items         []Review `json:"items"`
	Total         int      `json:"total"`
	AverageRating float64  `json:"average_rating"`
}
