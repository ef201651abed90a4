package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agamariel/domeda/internal/models"
)

const (
	courierBasePrice   = 1590
	defaultCourierTier = "start"
	defaultCookName    = "Повар"
)

var courierDiscounts = map[string]decimal.Decimal{
	"start":  decimal.Zero,
	"pro":    decimal.RequireFromString("0.1"),
	"studio": decimal.RequireFromString("0.2"),
}

// PartnerService определяет интерфейс сервисов для поваров.
type PartnerService interface {
	BookCourier(ctx context.Context, req *models.CourierBookingRequest) (*models.CourierBooking, error)
	RequestVerification(ctx context.Context, req *models.VerificationRequest) (*models.Verification, error)
}

// PartnerServiceImpl реализует PartnerService. Заявки не сохраняются.
type PartnerServiceImpl struct {
	clock Clock
}

// NewPartnerService создаёт новый сервис для поваров.
func NewPartnerService(clock Clock) *PartnerServiceImpl {
	return &PartnerServiceImpl{clock: clock}
}

// CourierPrice возвращает цену курьера для тарифа. Неизвестный тариф без скидки.
func CourierPrice(tier string) int {
	discount, ok := courierDiscounts[strings.ToLower(strings.TrimSpace(tier))]
	if !ok {
		discount = decimal.Zero
	}
	return int(decimal.NewFromInt(courierBasePrice).Mul(decimal.NewFromInt(1).Sub(discount)).IntPart())
}

// BookCourier подтверждает бронь курьера.
func (s *PartnerServiceImpl) BookCourier(_ context.Context, req *models.CourierBookingRequest) (*models.CourierBooking, error) {
	now := s.clock.now()
	return &models.CourierBooking{
		BookingID: "CR-" + now.Format("20060102150405"),
		CookName:  withDefault(req.CookName, defaultCookName),
		Date:      withDefault(req.Date, now.Format("2006-01-02")),
		Status:    "confirmed",
		Price:     CourierPrice(withDefault(req.Tier, defaultCourierTier)),
		Currency:  models.CurrencyRUB,
	}, nil
}

// RequestVerification принимает заявку повара на проверку.
func (s *PartnerServiceImpl) RequestVerification(_ context.Context, req *models.VerificationRequest) (*models.Verification, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, ErrFullNameRequired
	}
	return &models.Verification{
		RequestID: "VR-" + s.clock.now().Format("20060102150405"),
		FullName:  fullName,
		District:  withDefault(req.District, defaultDistrict),
		Status:    "pending",
	}, nil
}
