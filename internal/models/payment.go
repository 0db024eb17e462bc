package models

import "github.com/shopspring/decimal"

// Purchase is one line item of a payment request: a ticket type and how many
// of it the buyer wants.
type Purchase struct {
	TicketTypeID string `json:"TicketTypeId"`
	Quantity     int    `json:"Quantity"`
}

// PaymentRequest is the write-once payload sent to the backend's payment-link
// endpoint. UserId is omitted entirely for guest checkouts; PromoCode is
// passed through opaquely and validated by the backend.
type PaymentRequest struct {
	UserID      string     `json:"UserId,omitempty"`
	EventID     string     `json:"EventId" validate:"required"`
	FirstName   string     `json:"FirstName" validate:"required"`
	LastName    string     `json:"LastName" validate:"required"`
	Email       string     `json:"Email" validate:"required,email"`
	PhoneNumber string     `json:"PhoneNumber"`
	Purchases   []Purchase `json:"Purchases" validate:"required,min=1,dive"`
	PromoCode   string     `json:"PromoCode"`
}

// SalesPoint is one bucket of the backend's sales aggregation used by the
// admin dashboard charts.
type SalesPoint struct {
	Date        string          `json:"Date"`
	TotalAmount decimal.Decimal `json:"TotalAmount"`
}
