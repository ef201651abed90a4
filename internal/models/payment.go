package models

import (
	"encoding/json"
	"time"
)

const (
	PaymentMethodCard     = "card"
	PaymentStatusCaptured = "captured"
	PaymentProviderMock   = "domeda_pay_mock"
	CurrencyRUB           = "RUB"
)

// Payment - запись об успешной оплате, после создания не меняется.
type Payment struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	Provider   string    `json:"provider"`
	Method     string    `json:"method"`
	CardBrand  string    `json:"card_brand"`
	CardMasked string    `json:"card_masked"`
	CardLast4  string    `json:"card_last4"`
	Holder     string    `json:"holder"`
	Amount     int       `json:"amount"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"created_at"`
}

var paymentFields = recordFields{
	"id":          stringField,
	"order_id":    stringField,
	"card_last4":  stringField,
	"card_masked": stringField,
	"amount":      intField,
	"created_at":  timeField,
}

func (p *Payment) UnmarshalJSON(data []byte) error {
	data, err := normalizeRecord(data, paymentFields)
	if err != nil {
		return err
	}
	type plain Payment
	return json.Unmarshal(data, (*plain)(p))
}

// Summary возвращает краткое описание оплаты для заказа.
func (p *Payment) Summary() *PaymentSummary {
	return &PaymentSummary{
		Method:     p.Method,
		CardBrand:  p.CardBrand,
		CardMasked: p.CardMasked,
		Amount:     p.Amount,
		Currency:   p.Currency,
	}
}

// PaymentInstrument - реквизиты карты из запроса на оформление.
// Полный номер и CVC никуда не сохраняются.
type PaymentInstrument struct {
	Method     string
	CardNumber string
	ExpMonth   int
	ExpYear    int
	CVC        string
	Holder     string
}

// UnmarshalJSON допускает числа и строки в любых полях карты.
func (p *PaymentInstrument) UnmarshalJSON(data []byte) error {
	*p = PaymentInstrument{}
	raw, ok := decodeObject(data)
	if !ok {
		return nil
	}
	p.Method = looseString(raw["method"])
	p.CardNumber = looseString(raw["card_number"])
	p.ExpMonth = looseInt(raw["exp_month"], 0)
	p.ExpYear = looseInt(raw["exp_year"], 0)
	p.CVC = looseString(raw["cvc"])
	p.Holder = looseString(raw["holder"])
	return nil
}
