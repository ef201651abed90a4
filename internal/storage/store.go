package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/agamariel/domeda/internal/models"
)

var readOnly = map[string]bool{
	CollectionCooks:         true,
	CollectionSubscriptions: true,
}

// Store - хранилище коллекций с блокировкой на уровне коллекции.
// Все изменения выполняются через Update.
type Store struct {
	backend Backend
	logger  *log.Logger
	strict  bool
	locks   map[string]*sync.RWMutex
}

// NewStore создаёт новый экземпляр Store. При strict повреждённая
// коллекция возвращает ErrCollectionCorrupt вместо пустого списка.
func NewStore(backend Backend, logger *log.Logger, strict bool) *Store {
	if logger == nil {
		logger = log.Default()
	}
	locks := make(map[string]*sync.RWMutex, len(collections))
	for _, name := range collections {
		locks[name] = &sync.RWMutex{}
	}
	return &Store{
		backend: backend,
		logger:  logger,
		strict:  strict,
		locks:   locks,
	}
}

// Dishes возвращает все блюда.
func (s *Store) Dishes(ctx context.Context) ([]models.Dish, error) {
	return readLocked[models.Dish](ctx, s, CollectionDishes)
}

// Cooks возвращает всех поваров.
func (s *Store) Cooks(ctx context.Context) ([]models.Cook, error) {
	return readLocked[models.Cook](ctx, s, CollectionCooks)
}

// Orders возвращает все заказы.
func (s *Store) Orders(ctx context.Context) ([]models.Order, error) {
	return readLocked[models.Order](ctx, s, CollectionOrders)
}

// Payments возвращает все платежи.
func (s *Store) Payments(ctx context.Context) ([]models.Payment, error) {
	return readLocked[models.Payment](ctx, s, CollectionPayments)
}

// Reviews возвращает все отзывы.
func (s *Store) Reviews(ctx context.Context) ([]models.Review, error) {
	return readLocked[models.Review](ctx, s, CollectionReviews)
}

// Subscriptions возвращает тарифы подписки без разбора их структуры.
func (s *Store) Subscriptions(ctx context.Context) ([]json.RawMessage, error) {
	return readLocked[json.RawMessage](ctx, s, CollectionSubscriptions)
}

// Update блокирует перечисленные коллекции, выполняет fn и записывает
// всё, что fn сохранила через Tx. Если fn вернула ошибку, ничего не пишется.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error, names ...string) error {
	locked := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := s.locks[name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCollection, name)
		}
		if readOnly[name] {
			return fmt.Errorf("%w: %s", ErrCollectionReadOnly, name)
		}
		if !seen[name] {
			seen[name] = true
			locked = append(locked, name)
		}
	}
	// Единый порядок захвата исключает взаимную блокировку.
	sort.Strings(locked)

	for _, name := range locked {
		s.locks[name].Lock()
	}
	defer func() {
		for i := len(locked) - 1; i >= 0; i-- {
			s.locks[locked[i]].Unlock()
		}
	}()

	tx := &Tx{
		ctx:    ctx,
		store:  s,
		locked: seen,
		staged: make(map[string][]byte),
	}
	if err := fn(tx); err != nil {
		return err
	}
	return s.commit(ctx, tx.staged)
}

func (s *Store) commit(ctx context.Context, staged map[string][]byte) error {
	if len(staged) == 0 {
		return nil
	}
	if batch, ok := s.backend.(BatchWriter); ok && len(staged) > 1 {
		return batch.WriteBatch(ctx, staged)
	}

	names := make([]string, 0, len(staged))
	for name := range staged {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if err := s.backend.Write(ctx, name, staged[name]); err != nil {
			if i > 0 {
				s.logger.Printf("storage: partial commit: written %v, failed %s, not written %v: %v",
					names[:i], name, names[i+1:], err)
			}
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// Tx даёт доступ к коллекциям внутри Update.
type Tx struct {
	ctx    context.Context
	store  *Store
	locked map[string]bool
	staged map[string][]byte
}

func (tx *Tx) Dishes() ([]models.Dish, error) {
	return readTx[models.Dish](tx, CollectionDishes)
}

func (tx *Tx) Cooks() ([]models.Cook, error) {
	return readTx[models.Cook](tx, CollectionCooks)
}

func (tx *Tx) Orders() ([]models.Order, error) {
	return readTx[models.Order](tx, CollectionOrders)
}

func (tx *Tx) Payments() ([]models.Payment, error) {
	return readTx[models.Payment](tx, CollectionPayments)
}

func (tx *Tx) Reviews() ([]models.Review, error) {
	return readTx[models.Review](tx, CollectionReviews)
}

func (tx *Tx) SaveDishes(dishes []models.Dish) error {
	return tx.stage(CollectionDishes, dishes)
}

func (tx *Tx) SaveOrders(orders []models.Order) error {
	return tx.stage(CollectionOrders, orders)
}

func (tx *Tx) SavePayments(payments []models.Payment) error {
	return tx.stage(CollectionPayments, payments)
}

func (tx *Tx) SaveReviews(reviews []models.Review) error {
	return tx.stage(CollectionReviews, reviews)
}

func (tx *Tx) stage(name string, records any) error {
	if !tx.locked[name] {
		return fmt.Errorf("%w: %s", ErrCollectionNotLocked, name)
	}
	data, err := encodeCollection(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	tx.staged[name] = data
	return nil
}

// readTx читает коллекцию внутри Update. Коллекция, заблокированная на запись,
// читается только целиком: иначе сохранение затёрло бы записи, которые
// не удалось разобрать.
func readTx[T any](tx *Tx, name string) ([]T, error) {
	if data, ok := tx.staged[name]; ok {
		return decodeCollection[T](tx.store, name, data, true)
	}
	// Незаблокированные коллекции читаются под разделяемой блокировкой.
	if !tx.locked[name] {
		return readLocked[T](tx.ctx, tx.store, name)
	}
	return read[T](tx.ctx, tx.store, name, true)
}

func readLocked[T any](ctx context.Context, s *Store, name string) ([]T, error) {
	lock := s.locks[name]
	lock.RLock()
	defer lock.RUnlock()
	return read[T](ctx, s, name, s.strict)
}

func read[T any](ctx context.Context, s *Store, name string, strict bool) ([]T, error) {
	data, err := s.backend.Read(ctx, name)
	if err != nil {
		if errors.Is(err, ErrCollectionNotFound) {
			return []T{}, nil
		}
		if strict {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		s.logger.Printf("storage: collection %s unreadable, treating as empty: %v", name, err)
		return []T{}, nil
	}
	return decodeCollection[T](s, name, data, strict)
}

// decodeCollection разбирает массив записей. Без strict элементы, которые
// не удалось разобрать, пропускаются; со strict это ErrCollectionCorrupt.
func decodeCollection[T any](s *Store, name string, data []byte, strict bool) ([]T, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		if strict {
			return nil, fmt.Errorf("%w: %s: %v", ErrCollectionCorrupt, name, err)
		}
		s.logger.Printf("storage: collection %s is corrupt, treating as empty: %v", name, err)
		return []T{}, nil
	}

	records := make([]T, 0, len(raw))
	var skipped []int
	for i, item := range raw {
		if len(item) == 0 || item[0] != '{' {
			skipped = append(skipped, i)
			continue
		}
		var record T
		if err := json.Unmarshal(item, &record); err != nil {
			skipped = append(skipped, i)
			continue
		}
		records = append(records, record)
	}
	if len(skipped) > 0 {
		if strict {
			return nil, fmt.Errorf("%w: %s: malformed records at positions %v", ErrCollectionCorrupt, name, skipped)
		}
		s.logger.Printf("storage: skipped %d malformed records in %s", len(skipped), name)
	}
	return records, nil
}

func encodeCollection(records any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
