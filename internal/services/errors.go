package services

import "github.com/agamariel/domeda/internal/models"

// Ошибки сервисов. Текст ошибки совпадает с кодом, который видит клиент.
var (
	ErrItemsRequired            = models.Invalid("items_required")
	ErrItemsInvalid             = models.Invalid("items_invalid")
	ErrDishIDRequired           = models.Invalid("dish_id_required")
	ErrDishIDInvalid            = models.Invalid("dish_id_invalid")
	ErrDishUnavailable          = models.Invalid("dish_unavailable")
	ErrDishStockNotEnough       = models.Invalid("dish_stock_not_enough")
	ErrDeliveryModeInvalid      = models.Invalid("delivery_mode_invalid")
	ErrDeliveryModeNotAvailable = models.Invalid("delivery_mode_not_available")
	ErrQtyInvalid               = models.Invalid("qty_invalid")

	ErrTitleRequired             = models.Invalid("title_required")
	ErrCookIDRequired            = models.Invalid("cook_id_required")
	ErrPriceInvalid              = models.Invalid("price_invalid")
	ErrPortionGramsInvalid       = models.Invalid("portion_grams_invalid")
	ErrWaitMinutesInvalid        = models.Invalid("wait_minutes_invalid")
	ErrPortionsAvailableInvalid  = models.Invalid("portions_available_invalid")
	ErrAvailableFromInvalid      = models.Invalid("available_from_invalid")
	ErrAvailableUntilInvalid     = models.Invalid("available_until_invalid")
	ErrAvailabilityWindowInvalid = models.Invalid("availability_window_invalid")
	ErrDeliveryInvalid           = models.Invalid("delivery_invalid")

	ErrRatingInvalid    = models.Invalid("rating_invalid")
	ErrTextTooShort     = models.Invalid("text_too_short")
	ErrFullNameRequired = models.Invalid("full_name_required")

	ErrDishNotFound  = models.NotFound("dish_not_found")
	ErrCookNotFound  = models.NotFound("cook_not_found")
	ErrOrderNotFound = models.NotFound("order_not_found")
)
