package models

// Location - точка повара на карте.
type Location struct {
	Lat   *float64 `json:"lat,omitempty"`
	Lng   *float64 `json:"lng,omitempty"`
	Label string   `json:"label,omitempty"`
}

// Cook - справочная запись о поваре, ядро её не изменяет.
type Cook struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	District      string   `json:"district"`
	Location      Location `json:"location"`
	DeliveryModes []string `json:"delivery_modes"`
	Verified      bool     `json:"verified"`
	Rating        float64  `json:"rating"`
	ReviewsCount  int      `json:"reviews_count"`
	Bio           string   `json:"bio,omitempty"`
	AvatarURL     string   `json:"avatar_url,omitempty"`
}

// Delivery возвращает способы получения повара, по умолчанию самовывоз.
func (c *Cook) Delivery() []string {
	if len(c.DeliveryModes) > 0 {
		return append([]string(nil), c.DeliveryModes...)
	}
	return []string{DeliveryPickup}
}

// CookPoint - повар на карте со сводкой по меню.
type CookPoint struct {
	ID                   int     `json:"id"`
	Name                 string  `json:"name"`
	District             string  `json:"district"`
	Rating               float64 `json:"rating"`
	ReviewsCount         int     `json:"reviews_count"`
	Verified             bool    `json:"verified"`
	Lat                  float64 `json:"lat"`
	Lng                  float64 `json:"lng"`
	Label                string  `json:"label"`
	DishesCount          int     `json:"dishes_count"`
	AvailableDishesCount int     `json:"available_dishes_count"`
	MinPrice             int     `json:"min_price"`
}
