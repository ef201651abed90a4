package services

import (
	"context"
	"strings"

	"github.com/agamariel/domeda/internal/catalog"
	"github.com/agamariel/domeda/internal/events"
	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/storage"
	"github.com/agamariel/domeda/internal/utils"
)

const (
	reviewIDPrefix      = "REV"
	defaultReviewerName = "Покупатель"
	minReviewTextLength = 3
)

// ReviewService определяет интерфейс работы с отзывами.
type ReviewService interface {
	CreateReview(ctx context.Context, req *models.ReviewRequest) (*models.Review, error)
}

// ReviewServiceImpl реализует ReviewService.
type ReviewServiceImpl struct {
	store     CollectionStore
	publisher events.Publisher
	clock     Clock
}

// NewReviewService создаёт новый сервис отзывов.
func NewReviewService(store CollectionStore, publisher events.Publisher, clock Clock) *ReviewServiceImpl {
	return &ReviewServiceImpl{store: store, publisher: publisher, clock: clock}
}

// CreateReview сохраняет отзыв о блюде. Повар берётся из записи блюда.
func (s *ReviewServiceImpl) CreateReview(ctx context.Context, req *models.ReviewRequest) (*models.Review, error) {
	text := strings.TrimSpace(req.Text)
	switch {
	case req.DishID <= 0:
		return nil, ErrDishIDInvalid
	case req.Rating < 1 || req.Rating > 5:
		return nil, ErrRatingInvalid
	case len([]rune(text)) < minReviewTextLength:
		return nil, ErrTextTooShort
	}
	now := s.clock.now()

	var review models.Review
	err := s.store.Update(ctx, func(tx *storage.Tx) error {
		dishes, err := tx.Dishes()
		if err != nil {
			return err
		}
		cookID := -1
		for _, dish := range dishes {
			if dish.ID == req.DishID {
				cookID = dish.CookID
				break
			}
		}
		if cookID < 0 {
			return ErrDishNotFound
		}

		reviews, err := tx.Reviews()
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(reviews))
		for _, r := range reviews {
			ids = append(ids, r.ID)
		}

		review = models.Review{
			ID:           utils.NextSequenceID(reviewIDPrefix, ids, now),
			DishID:       req.DishID,
			CookID:       cookID,
			OrderID:      strings.TrimSpace(req.OrderID),
			CustomerName: withDefault(req.CustomerName, defaultReviewerName),
			Rating:       catalog.RoundRating(req.Rating),
			Text:         text,
			CreatedAt:    now,
		}
		return tx.SaveReviews(append(reviews, review))
	}, storage.CollectionReviews)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.Event{
		Type:     events.ReviewCreated,
		OrderID:  review.OrderID,
		ReviewID: review.ID,
		DishID:   review.DishID,
		Rating:   review.Rating,
		At:       now,
	})
	return &review, nil
}
