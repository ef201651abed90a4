package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/services"
)

// CatalogHandler обрабатывает запросы каталога блюд и поваров.
type CatalogHandler struct {
	catalog services.CatalogService
}

// NewCatalogHandler создает новый CatalogHandler.
func NewCatalogHandler(catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListDishes возвращает блюда с фильтрами из строки запроса.
// GET /api/dishes
func (h *CatalogHandler) ListDishes(c echo.Context) error {
	filter := services.NewDishFilter()
	filter.District = queryString(c, "district", "all")
	filter.Categories = csvValues(c.QueryParam("categories"))
	filter.Delivery = csvValues(c.QueryParam("delivery"))
	filter.Search = c.QueryParam("search")
	filter.MaxPrice = parseFloat(queryString(c, "max_price", ""), filter.MaxPrice)
	filter.MinRating = parseFloat(c.QueryParam("min_rating"), 0)
	filter.Sort = queryString(c, "sort", services.SortRating)
	filter.CookID = parseInt(c.QueryParam("cook_id"), 0)
	filter.IDs = csvInts(c.QueryParam("ids"))
	filter.AvailableOnly = c.QueryParam("available_only") == "1"

	items, err := h.catalog.ListDishes(c.Request().Context(), filter)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, listResponse(items, len(items)))
}

// GetDish возвращает карточку блюда.
// GET /api/dishes/:id
func (h *CatalogHandler) GetDish(c echo.Context) error {
	details, err := h.catalog.GetDish(c.Request().Context(), parseInt(c.Param("id"), -1))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, details)
}

// DishReviews возвращает отзывы о блюде.
// GET /api/dishes/:id/reviews
func (h *CatalogHandler) DishReviews(c echo.Context) error {
	list, err := h.catalog.DishReviews(c.Request().Context(), parseInt(c.Param("id"), -1))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// CreateDish публикует новое блюдо. Принимает JSON или поля формы.
// POST /api/dishes
func (h *CatalogHandler) CreateDish(c echo.Context) error {
	var req models.DishRequest
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := decodeBody(c, &req); err != nil {
			return err
		}
	} else {
		form, err := c.FormParams()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid_form_data")
		}
		req = dishRequestFromForm(form)
	}

	dish, err := h.catalog.CreateDish(c.Request().Context(), &req)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"dish": dish})
}

// dishRequestFromForm собирает запрос из полей формы. Нечисловое время
// ожидания дает значение по умолчанию.
func dishRequestFromForm(form map[string][]string) models.DishRequest {
	value := func(name string) string {
		if values := form[name]; len(values) > 0 {
			return strings.TrimSpace(values[0])
		}
		return ""
	}
	list := func(name string) []string {
		var result []string
		for _, raw := range form[name] {
			if raw = strings.TrimSpace(raw); raw != "" {
				result = append(result, raw)
			}
		}
		return result
	}

	req := models.DishRequest{
		Title:             value("title"),
		Description:       value("description"),
		CookID:            parseInt(value("cook_id"), -1),
		Price:             parseInt(value("price"), 0),
		PortionGrams:      parseInt(value("portion_grams"), 0),
		PortionsAvailable: parseInt(value("portions_available"), 0),
		AvailableFrom:     value("available_from"),
		AvailableUntil:    value("available_until"),
		Tags:              list("tags"),
		Delivery:          list("delivery"),
		ImageURL:          value("image_url"),
	}
	if wait, err := strconv.Atoi(value("wait_minutes")); err == nil {
		req.WaitMinutes = &wait
	}
	return req
}

// ListCooks возвращает поваров района.
// GET /api/cooks
func (h *CatalogHandler) ListCooks(c echo.Context) error {
	cooks, err := h.catalog.ListCooks(c.Request().Context(), queryString(c, "district", "all"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, listResponse(cooks, len(cooks)))
}

// CookMap возвращает точки поваров для карты.
// GET /api/cooks/map
func (h *CatalogHandler) CookMap(c echo.Context) error {
	points, err := h.catalog.CookMap(c.Request().Context(),
		queryString(c, "district", "all"), c.QueryParam("available_only") == "1")
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, listResponse(points, len(points)))
}

// CartPreview возвращает блюда корзины по списку id.
// GET /api/cart/preview
func (h *CatalogHandler) CartPreview(c echo.Context) error {
	items, err := h.catalog.CartPreview(c.Request().Context(), csvInts(c.QueryParam("ids")))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, listResponse(items, len(items)))
}

// Subscriptions возвращает тарифы подписки.
// GET /api/subscriptions
func (h *CatalogHandler) Subscriptions(c echo.Context) error {
	plans, err := h.catalog.Subscriptions(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, listResponse(plans, len(plans)))
}
