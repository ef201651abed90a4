package models

import "encoding/json"

// CartItem - строка корзины. Кривая строка разбирается в нули
// и отклоняется проверкой корзины.
type CartItem struct {
	DishID int `json:"dish_id"`
	Qty    int `json:"qty"`
}

// UnmarshalJSON не падает на строке неверной формы.
func (i *CartItem) UnmarshalJSON(data []byte) error {
	*i = CartItem{}
	raw, ok := decodeObject(data)
	if !ok {
		return nil
	}
	i.DishID = looseInt(raw["dish_id"], -1)
	i.Qty = looseInt(raw["qty"], 0)
	return nil
}

// CheckoutRequest - оформление корзины с оплатой картой.
type CheckoutRequest struct {
	Items         []CartItem         `json:"items"`
	DeliveryMode  string             `json:"delivery_mode"`
	City          string             `json:"city"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	Address       string             `json:"address"`
	Comment       string             `json:"comment"`
	Payment       *PaymentInstrument `json:"payment"`
}

// UnmarshalJSON принимает items любой формы: не массив считается пустой корзиной.
func (r *CheckoutRequest) UnmarshalJSON(data []byte) error {
	*r = CheckoutRequest{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if items, ok := raw["items"]; ok {
		_ = json.Unmarshal(items, &r.Items)
	}
	if payment, ok := raw["payment"]; ok {
		if _, isObject := decodeObject(payment); isObject {
			r.Payment = &PaymentInstrument{}
			_ = json.Unmarshal(payment, r.Payment)
		}
	}
	fields, _ := decodeObject(data)
	r.DeliveryMode = looseString(fields["delivery_mode"])
	r.City = looseString(fields["city"])
	r.CustomerName = looseString(fields["customer_name"])
	r.CustomerPhone = looseString(fields["customer_phone"])
	r.Address = looseString(fields["address"])
	r.Comment = looseString(fields["comment"])
	return nil
}
