package catalog

import (
	"time"

	"github.com/agamariel/domeda/internal/models"
)

// DishView - блюдо с агрегированным рейтингом и доступностью.
type DishView struct {
	models.Dish
	IsAvailable       bool   `json:"is_available"`
	AvailabilityLabel string `json:"availability_label"`
}

// EnrichDishes дополняет блюда рейтингом по отзывам и доступностью на момент now.
func EnrichDishes(dishes []models.Dish, reviews []models.Review, now time.Time) []DishView {
	dishStats, _ := Aggregate(dishes, reviews)

	views := make([]DishView, 0, len(dishes))
	for _, dish := range dishes {
		view := DishView{Dish: dish}
		view.Rating, view.ReviewsCount = Apply(dishStats, dish.ID, dish.Rating)

		availability := Evaluate(&view.Dish, now)
		view.IsAvailable = availability.IsAvailable
		view.AvailabilityLabel = availability.Label
		view.PortionsAvailable = availability.PortionsAvailable
		view.AvailableFrom = availability.AvailableFrom
		view.AvailableUntil = availability.AvailableUntil

		views = append(views, view)
	}
	return views
}

// EnrichCooks пересчитывает рейтинги поваров по отзывам на их блюда.
func EnrichCooks(cooks []models.Cook, dishes []models.Dish, reviews []models.Review) []models.Cook {
	_, cookStats := Aggregate(dishes, reviews)

	enriched := make([]models.Cook, 0, len(cooks))
	for _, cook := range cooks {
		cook.Rating, cook.ReviewsCount = Apply(cookStats, cook.ID, cook.Rating)
		enriched = append(enriched, cook)
	}
	return enriched
}

// CookPoints строит точки для карты. Повара без координат пропускаются.
func CookPoints(cooks []models.Cook, dishes []DishView) []models.CookPoint {
	type menuStats struct {
		dishes    int
		available int
		minPrice  int
	}

	menus := make(map[int]*menuStats)
	for _, dish := range dishes {
		if dish.CookID <= 0 {
			continue
		}
		st, ok := menus[dish.CookID]
		if !ok {
			st = &menuStats{}
			menus[dish.CookID] = st
		}
		st.dishes++
		if dish.IsAvailable {
			st.available++
		}
		if dish.Price > 0 && (st.minPrice == 0 || dish.Price < st.minPrice) {
			st.minPrice = dish.Price
		}
	}

	points := make([]models.CookPoint, 0, len(cooks))
	for _, cook := range cooks {
		if cook.Location.Lat == nil || cook.Location.Lng == nil {
			continue
		}
		menu := menus[cook.ID]
		if menu == nil {
			menu = &menuStats{}
		}
		points = append(points, models.CookPoint{
			ID:                   cook.ID,
			Name:                 cook.Name,
			District:             cook.District,
			Rating:               cook.Rating,
			ReviewsCount:         cook.ReviewsCount,
			Verified:             cook.Verified,
			Lat:                  *cook.Location.Lat,
			Lng:                  *cook.Location.Lng,
			Label:                cook.Location.Label,
			DishesCount:          menu.dishes,
			AvailableDishesCount: menu.available,
			MinPrice:             menu.minPrice,
		})
	}
	return points
}
