package models

// CourierBookingRequest - заявка на курьера для повара.
type CourierBookingRequest struct {
	Tier     string `json:"tier"`
	CookName string `json:"cook_name"`
	Date     string `json:"date"`
}

func (r *CourierBookingRequest) UnmarshalJSON(data []byte) error {
	*r = CourierBookingRequest{}
	raw, ok := decodeObject(data)
	if !ok {
		return nil
	}
	r.Tier = looseString(raw["tier"])
	r.CookName = looseString(raw["cook_name"])
	r.Date = looseString(raw["date"])
	return nil
}

// CourierBooking - подтверждённая бронь курьера.
type CourierBooking struct {
	BookingID string `json:"booking_id"`
	CookName  string `json:"cook_name"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Price     int    `json:"price"`
	Currency  string `json:"currency"`
}

// VerificationRequest - заявка повара на проверку.
type VerificationRequest struct {
	FullName string `json:"full_name"`
	District string `json:"district"`
}

func (r *VerificationRequest) UnmarshalJSON(data []byte) error {
	*r = VerificationRequest{}
	raw, ok := decodeObject(data)
	if !ok {
		return nil
	}
	r.FullName = looseString(raw["full_name"])
	r.District = looseString(raw["district"])
	return nil
}

// Verification - принятая заявка на проверку.
type Verification struct {
	RequestID string `json:"request_id"`
	FullName  string `json:"full_name"`
	District  string `json:"district"`
	Status    string `json:"status"`
}
