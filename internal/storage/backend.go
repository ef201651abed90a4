// Package storage хранит коллекции записей целиком: один документ JSON на коллекцию.
package storage

import (
	"context"
	"errors"
)

// Имена коллекций.
const (
	CollectionDishes        = "dishes"
	CollectionCooks         = "cooks"
	CollectionOrders        = "orders"
	CollectionPayments      = "payments"
	CollectionReviews       = "reviews"
	CollectionSubscriptions = "subscriptions"
)

var collections = []string{
	CollectionCooks,
	CollectionDishes,
	CollectionOrders,
	CollectionPayments,
	CollectionReviews,
	CollectionSubscriptions,
}

var (
	ErrCollectionNotFound  = errors.New("collection not found")
	ErrCollectionCorrupt   = errors.New("collection corrupt")
	ErrCollectionReadOnly  = errors.New("collection is read-only")
	ErrCollectionNotLocked = errors.New("collection is not locked by transaction")
	ErrUnknownCollection   = errors.New("unknown collection")
)

// Backend определяет интерфейс физического хранилища коллекций.
type Backend interface {
	// Read возвращает документ коллекции или ErrCollectionNotFound.
	Read(ctx context.Context, name string) ([]byte, error)
	// Write полностью перезаписывает коллекцию.
	Write(ctx context.Context, name string, data []byte) error
}

// BatchWriter реализуют хранилища, умеющие записать несколько коллекций атомарно.
type BatchWriter interface {
	WriteBatch(ctx context.Context, docs map[string][]byte) error
}
