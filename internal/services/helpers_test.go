package services

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/agamariel/domeda/internal/events"
	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/storage"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

var discardLogger = log.New(io.Discard, "", 0)

// recordingPublisher запоминает опубликованные события.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func float(v float64) *float64 { return &v }

func seedDishes() []models.Dish {
	return []models.Dish{
		{ID: 1, CookID: 10, Title: "Борщ", Cook: "Анна", District: "Центр", Rating: 4.5, Price: 500,
			Tags: []string{"soup"}, DeliveryModes: []string{"pickup", "courier"}, PortionsAvailable: 2},
		{ID: 2, CookID: 20, Title: "Плов", Cook: "Олег", District: "Север", Rating: 4.9, Price: 300,
			Tags: []string{"hot"}, DeliveryModes: []string{"pickup"}, PortionsAvailable: 5},
		{ID: 3, CookID: 10, Title: "Сырники", Cook: "Анна", District: "Центр", Rating: 4.0, Price: 250,
			Tags: []string{"breakfast"}, DeliveryModes: []string{"pickup"}, PortionsAvailable: 0},
		{ID: 4, CookID: 20, Title: "Пельмени", Cook: "Олег", District: "Север", Rating: 4.2, Price: 400,
			Tags: []string{"hot"}, DeliveryModes: []string{"pickup", "cook"}, PortionsAvailable: 3,
			AvailableFrom: "18:00", AvailableUntil: "22:00"},
	}
}

func seedCooks() []models.Cook {
	return []models.Cook{
		{ID: 10, Name: "Анна", District: "Центр", DeliveryModes: []string{"pickup", "courier"}, Verified: true, Rating: 4.6,
			Location: models.Location{Lat: float(55.75), Lng: float(37.61), Label: "Тверская"}},
		{ID: 20, Name: "Олег", District: "Север", Rating: 4.1,
			Location: models.Location{Lat: float(55.87), Lng: float(37.65)}},
		{ID: 30, Name: "Ира", District: "Юг"},
	}
}

// newSeededStore создаёт хранилище в памяти с коллекциями из seed.
func newSeededStore(t *testing.T, seed map[string]any) (*storage.Store, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	for name, records := range seed {
		data, err := json.Marshal(records)
		if err != nil {
			t.Fatalf("failed to encode %s: %v", name, err)
		}
		if err := backend.Write(context.Background(), name, data); err != nil {
			t.Fatalf("failed to seed %s: %v", name, err)
		}
	}
	return storage.NewStore(backend, discardLogger, true), backend
}

func defaultSeed() map[string]any {
	return map[string]any{
		storage.CollectionDishes: seedDishes(),
		storage.CollectionCooks:  seedCooks(),
	}
}

func validPayment() *models.PaymentInstrument {
	return &models.PaymentInstrument{
		Method:     "card",
		CardNumber: "4242 4242 4242 4242",
		ExpMonth:   12,
		ExpYear:    2030,
		CVC:        "123",
		Holder:     "ANNA IVANOVA",
	}
}

// mockStore - мок хранилища для проверки ошибок чтения.
type mockStore struct {
	DishesFunc        func(ctx context.Context) ([]models.Dish, error)
	CooksFunc         func(ctx context.Context) ([]models.Cook, error)
	OrdersFunc        func(ctx context.Context) ([]models.Order, error)
	PaymentsFunc      func(ctx context.Context) ([]models.Payment, error)
	ReviewsFunc       func(ctx context.Context) ([]models.Review, error)
	SubscriptionsFunc func(ctx context.Context) ([]json.RawMessage, error)
	UpdateFunc        func(ctx context.Context, fn func(tx *storage.Tx) error, names ...string) error
}

func (m *mockStore) Dishes(ctx context.Context) ([]models.Dish, error) {
	if m.DishesFunc != nil {
		return m.DishesFunc(ctx)
	}
	return []models.Dish{}, nil
}

func (m *mockStore) Cooks(ctx context.Context) ([]models.Cook, error) {
	if m.CooksFunc != nil {
		return m.CooksFunc(ctx)
	}
	return []models.Cook{}, nil
}

func (m *mockStore) Orders(ctx context.Context) ([]models.Order, error) {
	if m.OrdersFunc != nil {
		return m.OrdersFunc(ctx)
	}
	return []models.Order{}, nil
}

func (m *mockStore) Payments(ctx context.Context) ([]models.Payment, error) {
	if m.PaymentsFunc != nil {
		return m.PaymentsFunc(ctx)
	}
	return []models.Payment{}, nil
}

func (m *mockStore) Reviews(ctx context.Context) ([]models.Review, error) {
	if m.ReviewsFunc != nil {
		return m.ReviewsFunc(ctx)
	}
	return []models.Review{}, nil
}

func (m *mockStore) Subscriptions(ctx context.Context) ([]json.RawMessage, error) {
	if m.SubscriptionsFunc != nil {
		return m.SubscriptionsFunc(ctx)
	}
	return []json.RawMessage{}, nil
}

func (m *mockStore) Update(ctx context.Context, fn func(tx *storage.Tx) error, names ...string) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, fn, names...)
	}
	return nil
}
