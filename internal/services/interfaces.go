package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/storage"
)

// CollectionStore определяет интерфейс хранилища коллекций.
type CollectionStore interface {
	Dishes(ctx context.Context) ([]models.Dish, error)
	Cooks(ctx context.Context) ([]models.Cook, error)
	Orders(ctx context.Context) ([]models.Order, error)
	Payments(ctx context.Context) ([]models.Payment, error)
	Reviews(ctx context.Context) ([]models.Review, error)
	Subscriptions(ctx context.Context) ([]json.RawMessage, error)
	Update(ctx context.Context, fn func(tx *storage.Tx) error, names ...string) error
}

// Clock возвращает текущее время в часовом поясе сервиса.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
