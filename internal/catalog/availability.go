// Package catalog вычисляет доступность блюд и агрегирует рейтинги.
// Все функции чистые: текущее время передаётся явно.
package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agamariel/domeda/internal/models"
)

const (
	labelOutOfStock   = "Закончилось"
	labelOutsideHours = "Вне времени приема"
)

// Availability - вычисленное состояние блюда на момент now.
type Availability struct {
	IsAvailable       bool   `json:"is_available"`
	Label             string `json:"availability_label"`
	PortionsAvailable int    `json:"portions_available"`
	AvailableFrom     string `json:"available_from"`
	AvailableUntil    string `json:"available_until"`
}

// ValidHHMM проверяет время в формате HH:MM. Пустая строка допустима.
func ValidHHMM(value string) bool {
	_, ok := parseHHMM(value)
	return ok
}

// MinutesOfDay переводит HH:MM в минуты от полуночи, -1 для пустой или неверной строки.
func MinutesOfDay(value string) int {
	minutes, ok := parseHHMM(value)
	if !ok {
		return -1
	}
	return minutes
}

func parseHHMM(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return -1, true
	}
	hh, mm, found := strings.Cut(value, ":")
	if !found || strings.Contains(mm, ":") {
		return -1, false
	}
	hours, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil || hours < 0 || hours > 23 {
		return -1, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil || minutes < 0 || minutes > 59 {
		return -1, false
	}
	return hours*60 + minutes, true
}

// InWindow сообщает, попадает ли now в окно приёма заказов блюда.
// Незаданная граница окна не ограничивает.
func InWindow(dish *models.Dish, now time.Time) bool {
	current := now.Hour()*60 + now.Minute()
	if from := MinutesOfDay(dish.AvailableFrom); from >= 0 && current < from {
		return false
	}
	if until := MinutesOfDay(dish.AvailableUntil); until >= 0 && current > until {
		return false
	}
	return true
}

// IsAvailable сообщает, можно ли заказать блюдо в момент now.
func IsAvailable(dish *models.Dish, now time.Time) bool {
	return dish.PortionsAvailable > 0 && InWindow(dish, now)
}

// Evaluate возвращает доступность блюда с подписью для витрины.
func Evaluate(dish *models.Dish, now time.Time) Availability {
	portions := max(0, dish.PortionsAvailable)
	inWindow := InWindow(dish, now)
	until := strings.TrimSpace(dish.AvailableUntil)

	var label string
	switch {
	case portions <= 0:
		label = labelOutOfStock
	case !inWindow:
		label = labelOutsideHours
	case until != "":
		label = fmt.Sprintf("В наличии · до %s · %d порц.", until, portions)
	default:
		label = fmt.Sprintf("В наличии · %d порц.", portions)
	}

	return Availability{
		IsAvailable:       portions > 0 && inWindow,
		Label:             label,
		PortionsAvailable: portions,
		AvailableFrom:     strings.TrimSpace(dish.AvailableFrom),
		AvailableUntil:    until,
	}
}
