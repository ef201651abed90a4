package catalog

import (
	"github.com/agamariel/domeda/internal/models"
	"github.com/shopspring/decimal"
)

// ratingBias компенсирует ошибки округления float перед округлением до сотых.
var ratingBias = decimal.New(1, -8)

// Stats - сумма и количество учтённых оценок.
type Stats struct {
	Sum   float64
	Count int
}

// Average возвращает среднюю оценку, округлённую до сотых.
func (s Stats) Average() float64 {
	if s.Count == 0 {
		return 0
	}
	return RoundRating(s.Sum / float64(s.Count))
}

// RoundRating округляет оценку до двух знаков.
func RoundRating(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Add(ratingBias).Round(2).Float64()
	return rounded
}

// Aggregate сворачивает отзывы в статистику по блюдам и поварам.
// Повар отзыва определяется по блюду из каталога, а не по полю отзыва.
func Aggregate(dishes []models.Dish, reviews []models.Review) (map[int]Stats, map[int]Stats) {
	dishToCook := make(map[int]int, len(dishes))
	for _, dish := range dishes {
		if dish.ID > 0 && dish.CookID > 0 {
			dishToCook[dish.ID] = dish.CookID
		}
	}

	dishStats := make(map[int]Stats)
	cookStats := make(map[int]Stats)
	for _, review := range reviews {
		if review.DishID <= 0 || review.Rating <= 0 {
			continue
		}

		st := dishStats[review.DishID]
		st.Sum += review.Rating
		st.Count++
		dishStats[review.DishID] = st

		if cookID, ok := dishToCook[review.DishID]; ok {
			cs := cookStats[cookID]
			cs.Sum += review.Rating
			cs.Count++
			cookStats[cookID] = cs
		}
	}

	return dishStats, cookStats
}

// Apply возвращает рейтинг и число отзывов с учётом статистики.
// Без отзывов остаётся сохранённый рейтинг и ноль отзывов.
func Apply(stats map[int]Stats, id int, stored float64) (float64, int) {
	if st, ok := stats[id]; ok && st.Count > 0 {
		return st.Average(), st.Count
	}
	return stored, 0
}
