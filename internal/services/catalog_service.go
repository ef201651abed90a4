package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/agamariel/domeda/internal/catalog"
	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/storage"
)

const (
	SortRating    = "rating"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"

	defaultMaxPrice    = 999999
	defaultWaitMinutes = 40
	defaultDistrict    = "Москва"
	defaultDescription = "Домашнее блюдо от локального повара."
	defaultTag         = "hot"
	recommendedLimit   = 3
)

// DishFilter - параметры выборки блюд.
type DishFilter struct {
	District      string
	Categories    []string
	Delivery      []string
	Search        string
	MaxPrice      float64
	MinRating     float64
	Sort          string
	CookID        int
	IDs           []int
	AvailableOnly bool
}

// NewDishFilter возвращает фильтр без ограничений.
func NewDishFilter() DishFilter {
	return DishFilter{MaxPrice: defaultMaxPrice, Sort: SortRating}
}

// DishDetails - карточка блюда.
type DishDetails struct {
	Dish        catalog.DishView   `json:"dish"`
	Cook        *models.Cook       `json:"cook"`
	Recommended []catalog.DishView `json:"recommended"`
}

// CatalogService определяет интерфейс каталога блюд и поваров.
type CatalogService interface {
	ListDishes(ctx context.Context, filter DishFilter) ([]catalog.DishView, error)
	GetDish(ctx context.Context, id int) (*DishDetails, error)
	DishReviews(ctx context.Context, id int) (*models.ReviewList, error)
	CreateDish(ctx context.Context, req *models.DishRequest) (*models.Dish, error)
	ListCooks(ctx context.Context, district string) ([]models.Cook, error)
	CookMap(ctx context.Context, district string, availableOnly bool) ([]models.CookPoint, error)
	CartPreview(ctx context.Context, ids []int) ([]catalog.DishView, error)
	Subscriptions(ctx context.Context) ([]json.RawMessage, error)
}

// CatalogServiceImpl реализует CatalogService.
type CatalogServiceImpl struct {
	store CollectionStore
	clock Clock
}

// NewCatalogService создаёт новый сервис каталога.
func NewCatalogService(store CollectionStore, clock Clock) *CatalogServiceImpl {
	return &CatalogServiceImpl{store: store, clock: clock}
}

func (s *CatalogServiceImpl) loadMenu(ctx context.Context) ([]models.Dish, []models.Review, error) {
	dishes, err := s.store.Dishes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load dishes: %w", err)
	}
	reviews, err := s.store.Reviews(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load reviews: %w", err)
	}
	return dishes, reviews, nil
}

func (s *CatalogServiceImpl) enrichedDishes(ctx context.Context) ([]catalog.DishView, error) {
	dishes, reviews, err := s.loadMenu(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.EnrichDishes(dishes, reviews, s.clock.now()), nil
}

// ListDishes возвращает блюда с рейтингом и доступностью, отфильтрованные и отсортированные.
func (s *CatalogServiceImpl) ListDishes(ctx context.Context, filter DishFilter) ([]catalog.DishView, error) {
	views, err := s.enrichedDishes(ctx)
	if err != nil {
		return nil, err
	}

	ids := intSet(filter.IDs)
	categories := stringSet(filter.Categories)
	delivery := stringSet(filter.Delivery)
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	result := make([]catalog.DishView, 0, len(views))
	for _, dish := range views {
		if len(ids) > 0 && !ids[dish.ID] {
			continue
		}
		if filter.District != "" && filter.District != "all" && dish.District != filter.District {
			continue
		}
		if filter.CookID > 0 && dish.CookID != filter.CookID {
			continue
		}
		if len(categories) > 0 && !intersects(categories, dish.Tags) {
			continue
		}
		if len(delivery) > 0 && !intersects(delivery, dish.DeliveryModes) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(dish.Title), search) &&
			!strings.Contains(strings.ToLower(dish.Cook), search) &&
			!strings.Contains(strings.ToLower(dish.District), search) {
			continue
		}
		if float64(dish.Price) > filter.MaxPrice || dish.Rating < filter.MinRating {
			continue
		}
		if filter.AvailableOnly && !dish.IsAvailable {
			continue
		}
		result = append(result, dish)
	}

	switch filter.Sort {
	case SortPriceAsc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price < result[j].Price })
	case SortPriceDesc:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Price > result[j].Price })
	default:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Rating > result[j].Rating })
	}
	return result, nil
}

// GetDish возвращает блюдо, его повара и до трёх блюд из того же района.
func (s *CatalogServiceImpl) GetDish(ctx context.Context, id int) (*DishDetails, error) {
	if id <= 0 {
		return nil, ErrDishIDInvalid
	}

	dishes, reviews, err := s.loadMenu(ctx)
	if err != nil {
		return nil, err
	}
	cooks, err := s.store.Cooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cooks: %w", err)
	}

	views := catalog.EnrichDishes(dishes, reviews, s.clock.now())
	var details *DishDetails
	for _, view := range views {
		if view.ID == id {
			details = &DishDetails{Dish: view, Recommended: []catalog.DishView{}}
			break
		}
	}
	if details == nil {
		return nil, ErrDishNotFound
	}

	details.Cook = findDishCook(&details.Dish.Dish, catalog.EnrichCooks(cooks, dishes, reviews))
	for _, view := range views {
		if len(details.Recommended) == recommendedLimit {
			break
		}
		if view.ID != id && view.District == details.Dish.District {
			details.Recommended = append(details.Recommended, view)
		}
	}
	return details, nil
}

// findDishCook ищет повара по идентификатору, а для старых записей по имени.
func findDishCook(dish *models.Dish, cooks []models.Cook) *models.Cook {
	for i := range cooks {
		if dish.CookID > 0 && cooks[i].ID == dish.CookID {
			return &cooks[i]
		}
	}
	for i := range cooks {
		if dish.Cook != "" && cooks[i].Name == dish.Cook {
			return &cooks[i]
		}
	}
	return nil
}

// DishReviews возвращает отзывы о блюде, новые первыми.
func (s *CatalogServiceImpl) DishReviews(ctx context.Context, id int) (*models.ReviewList, error) {
	if id <= 0 {
		return nil, ErrDishIDInvalid
	}

	reviews, err := s.store.Reviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}

	list := &models.ReviewList{Items: []models.Review{}}
	var sum float64
	for _, review := range reviews {
		if review.DishID == id {
			list.Items = append(list.Items, review)
			sum += review.Rating
		}
	}
	sort.SliceStable(list.Items, func(i, j int) bool {
		return list.Items[i].CreatedAt.After(list.Items[j].CreatedAt)
	})

	list.Total = len(list.Items)
	if list.Total > 0 {
		list.AverageRating = catalog.RoundRating(sum / float64(list.Total))
	}
	return list, nil
}

// CreateDish публикует новое блюдо повара.
func (s *CatalogServiceImpl) CreateDish(ctx context.Context, req *models.DishRequest) (*models.Dish, error) {
	if err := validateDishRequest(req); err != nil {
		return nil, err
	}

	cooks, err := s.store.Cooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cooks: %w", err)
	}
	var cook *models.Cook
	for i := range cooks {
		if cooks[i].ID == req.CookID {
			cook = &cooks[i]
			break
		}
	}
	if cook == nil {
		return nil, ErrCookNotFound
	}

	wait := defaultWaitMinutes
	if req.WaitMinutes != nil {
		wait = *req.WaitMinutes
	}
	tags := sortedUnique(req.Tags)
	if len(tags) == 0 {
		tags = []string{defaultTag}
	}
	delivery := sortedUnique(req.Delivery)
	if len(delivery) == 0 {
		delivery = cook.Delivery()
	}
	district := cook.District
	if district == "" {
		district = defaultDistrict
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = defaultDescription
	}
	now := s.clock.now()

	dish := models.Dish{
		CookID:            cook.ID,
		Title:             strings.TrimSpace(req.Title),
		Cook:              cook.Name,
		District:          district,
		Rating:            cook.Rating,
		Price:             req.Price,
		Tags:              tags,
		DeliveryModes:     delivery,
		Wait:              fmt.Sprintf("%d мин", wait),
		Description:       description,
		Portion:           fmt.Sprintf("%d г", req.PortionGrams),
		PortionGrams:      req.PortionGrams,
		ImageURL:          strings.TrimSpace(req.ImageURL),
		PortionsAvailable: req.PortionsAvailable,
		AvailableFrom:     strings.TrimSpace(req.AvailableFrom),
		AvailableUntil:    strings.TrimSpace(req.AvailableUntil),
		CreatedAt:         &now,
	}

	err = s.store.Update(ctx, func(tx *storage.Tx) error {
		dishes, err := tx.Dishes()
		if err != nil {
			return err
		}
		for _, existing := range dishes {
			if existing.ID > dish.ID {
				dish.ID = existing.ID
			}
		}
		dish.ID++
		return tx.SaveDishes(append(dishes, dish))
	}, storage.CollectionDishes)
	if err != nil {
		return nil, fmt.Errorf("save dish: %w", err)
	}
	return &dish, nil
}

func validateDishRequest(req *models.DishRequest) error {
	from := strings.TrimSpace(req.AvailableFrom)
	until := strings.TrimSpace(req.AvailableUntil)

	switch {
	case strings.TrimSpace(req.Title) == "":
		return ErrTitleRequired
	case req.CookID <= 0:
		return ErrCookIDRequired
	case req.Price <= 0:
		return ErrPriceInvalid
	case req.PortionGrams <= 0:
		return ErrPortionGramsInvalid
	case req.WaitMinutes != nil && *req.WaitMinutes <= 0:
		return ErrWaitMinutesInvalid
	case req.PortionsAvailable <= 0:
		return ErrPortionsAvailableInvalid
	case !catalog.ValidHHMM(from):
		return ErrAvailableFromInvalid
	case !catalog.ValidHHMM(until):
		return ErrAvailableUntilInvalid
	case from != "" && until != "" && catalog.MinutesOfDay(from) > catalog.MinutesOfDay(until):
		return ErrAvailabilityWindowInvalid
	}
	for _, mode := range req.Delivery {
		mode = strings.TrimSpace(mode)
		if mode != "" && !models.IsDeliveryMode(mode) {
			return ErrDeliveryInvalid
		}
	}
	return nil
}

// ListCooks возвращает поваров района с пересчитанным рейтингом.
func (s *CatalogServiceImpl) ListCooks(ctx context.Context, district string) ([]models.Cook, error) {
	dishes, reviews, err := s.loadMenu(ctx)
	if err != nil {
		return nil, err
	}
	cooks, err := s.store.Cooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cooks: %w", err)
	}
	return filterCooks(catalog.EnrichCooks(cooks, dishes, reviews), district), nil
}

// CookMap возвращает точки поваров для карты.
func (s *CatalogServiceImpl) CookMap(ctx context.Context, district string, availableOnly bool) ([]models.CookPoint, error) {
	dishes, reviews, err := s.loadMenu(ctx)
	if err != nil {
		return nil, err
	}
	cooks, err := s.store.Cooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cooks: %w", err)
	}

	cooks = filterCooks(catalog.EnrichCooks(cooks, dishes, reviews), district)
	points := catalog.CookPoints(cooks, catalog.EnrichDishes(dishes, reviews, s.clock.now()))
	if !availableOnly {
		return points, nil
	}

	available := make([]models.CookPoint, 0, len(points))
	for _, point := range points {
		if point.AvailableDishesCount > 0 {
			available = append(available, point)
		}
	}
	return available, nil
}

func filterCooks(cooks []models.Cook, district string) []models.Cook {
	if district == "" || district == "all" {
		return cooks
	}
	filtered := make([]models.Cook, 0, len(cooks))
	for _, cook := range cooks {
		if cook.District == district {
			filtered = append(filtered, cook)
		}
	}
	return filtered
}

// CartPreview возвращает актуальное состояние блюд корзины.
func (s *CatalogServiceImpl) CartPreview(ctx context.Context, ids []int) ([]catalog.DishView, error) {
	views, err := s.enrichedDishes(ctx)
	if err != nil {
		return nil, err
	}
	wanted := intSet(ids)
	if len(wanted) == 0 {
		return views, nil
	}

	result := make([]catalog.DishView, 0, len(wanted))
	for _, view := range views {
		if wanted[view.ID] {
			result = append(result, view)
		}
	}
	return result, nil
}

// Subscriptions возвращает тарифы подписки.
func (s *CatalogServiceImpl) Subscriptions(ctx context.Context) ([]json.RawMessage, error) {
	plans, err := s.store.Subscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}
	return plans, nil
}

func intSet(values []int) map[int]bool {
	set := make(map[int]bool, len(values))
	for _, v := range values {
		if v > 0 {
			set[v] = true
		}
	}
	return set
}

func stringSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = true
		}
	}
	return set
}

func intersects(set map[string]bool, values []string) bool {
	for _, v := range values {
		if set[v] {
			return true
		}
	}
	return false
}

func sortedUnique(values []string) []string {
	set := stringSet(values)
	result := make([]string, 0, len(set))
	for v := range set {
		result = append(result, v)
	}
	sort.Strings(result)
	return result
}
