// Package payment содержит имитацию платёжного шлюза.
package payment

import (
	"context"
	"strings"
	"time"

	"github.com/agamariel/domeda/internal/models"
	"github.com/agamariel/domeda/internal/utils"
)

var (
	ErrPaymentRequired    = models.Invalid("payment_required")
	ErrMethodNotSupported = models.Invalid("payment_method_not_supported")
	ErrCardNumberInvalid  = models.Invalid("card_number_invalid")
	ErrCardExpiryInvalid  = models.Invalid("card_expiry_invalid")
	ErrCardCVCInvalid     = models.Invalid("card_cvc_invalid")
	ErrCardHolderInvalid  = models.Invalid("card_holder_invalid")
	ErrCardExpired        = models.Invalid("card_expired")
)

// Authorization - одобренная оплата без чувствительных данных карты.
type Authorization struct {
	Method     string
	CardBrand  string
	CardMasked string
	CardLast4  string
	Holder     string
	Amount     int
	Currency   string
}

// Gateway проверяет платёжный инструмент на сумму amount.
type Gateway interface {
	Authorize(ctx context.Context, instrument *models.PaymentInstrument, amount int) (*Authorization, error)
}

// MockGateway принимает любую корректную непросроченную карту.
type MockGateway struct {
	now func() time.Time
}

// NewMockGateway создаёт шлюз. now задаёт текущее время для проверки срока карты.
func NewMockGateway(now func() time.Time) *MockGateway {
	if now == nil {
		now = time.Now
	}
	return &MockGateway{now: now}
}

// Authorize выполняет проверки в том же порядке, в каком о них сообщает клиенту.
func (g *MockGateway) Authorize(_ context.Context, instrument *models.PaymentInstrument, amount int) (*Authorization, error) {
	if instrument == nil {
		return nil, ErrPaymentRequired
	}
	if strings.ToLower(strings.TrimSpace(instrument.Method)) != models.PaymentMethodCard {
		return nil, ErrMethodNotSupported
	}

	number := utils.DigitsOnly(instrument.CardNumber)
	if len(number) < 13 || len(number) > 19 || !utils.ValidateLuhn(number) {
		return nil, ErrCardNumberInvalid
	}
	if instrument.ExpMonth < 1 || instrument.ExpMonth > 12 {
		return nil, ErrCardExpiryInvalid
	}
	if instrument.ExpYear < 2000 || instrument.ExpYear > 2100 {
		return nil, ErrCardExpiryInvalid
	}
	cvc := utils.DigitsOnly(instrument.CVC)
	if len(cvc) < 3 || len(cvc) > 4 {
		return nil, ErrCardCVCInvalid
	}
	holder := strings.TrimSpace(instrument.Holder)
	if len([]rune(holder)) < 2 {
		return nil, ErrCardHolderInvalid
	}

	now := g.now()
	if instrument.ExpYear < now.Year() || (instrument.ExpYear == now.Year() && instrument.ExpMonth < int(now.Month())) {
		return nil, ErrCardExpired
	}

	return &Authorization{
		Method:     models.PaymentMethodCard,
		CardBrand:  CardBrand(number),
		CardMasked: MaskCardNumber(number),
		CardLast4:  number[len(number)-4:],
		Holder:     holder,
		Amount:     amount,
		Currency:   models.CurrencyRUB,
	}, nil
}

// CardBrand определяет платёжную систему по префиксу номера.
func CardBrand(number string) string {
	switch {
	case strings.HasPrefix(number, "4"):
		return "VISA"
	case len(number) >= 2 && number[0] == '5' && number[1] >= '1' && number[1] <= '5':
		return "MASTERCARD"
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return "AMEX"
	case strings.HasPrefix(number, "2200"):
		return "MIR"
	default:
		return "CARD"
	}
}

// MaskCardNumber оставляет только первые и последние четыре цифры.
func MaskCardNumber(number string) string {
	if len(number) < 8 {
		return ""
	}
	return number[:4] + " **** **** " + number[len(number)-4:]
}
