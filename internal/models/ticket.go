package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// TicketType is a priced category of admission for one event, e.g. "VIP" or
// "General". Prices are decimals because the backend deals in real currency
// amounts, not integer cents.
type TicketType struct {
	ID           string          `json:"Id"`
	EventID      string          `json:"EventId"`
	Type         string          `json:"Type"`
	Price        decimal.Decimal `json:"Price"`
	TotalTickets int             `json:"TotalTickets"`
}

var (
	// ErrMissingTicketTypeID is returned when a backend ticket type has no identifier.
	ErrMissingTicketTypeID = errors.New("ticket type is missing an id")
	// ErrNegativePrice is returned when a backend ticket type has a negative price.
	ErrNegativePrice = errors.New("ticket type price must not be negative")
	// ErrNegativeTotalTickets is returned when a backend ticket type reports a
	// negative number of available tickets.
	ErrNegativeTotalTickets = errors.New("ticket type total tickets must not be negative")
)

// Normalize trims identifier and label whitespace.
func (t *TicketType) Normalize() {
	t.ID = strings.TrimSpace(t.ID)
	t.EventID = strings.TrimSpace(t.EventID)
	t.Type = strings.TrimSpace(t.Type)
}

// Validate rejects malformed backend responses before they enter checkout state.
func (t *TicketType) Validate() error {
	if t.ID == "" {
		return ErrMissingTicketTypeID
	}
	if t.Price.IsNegative() {
		return ErrNegativePrice
	}
	if t.TotalTickets < 0 {
		return ErrNegativeTotalTickets
	}
	return nil
}

// SelectedTickets maps a ticket-type id to the requested quantity. It only
// lives inside a checkout session and is discarded when the checkout
// completes or expires.
type SelectedTickets map[string]int

// SetQuantity records the requested quantity for a ticket type, clamping
// negative input to zero. Remaining-inventory limits are enforced by the
// backend, not here.
func (s SelectedTickets) SetQuantity(ticketTypeID string, quantity int) {
	if quantity < 0 {
		quantity = 0
	}
	s[ticketTypeID] = quantity
}

// Quantity returns the requested quantity for a ticket type, zero if none.
func (s SelectedTickets) Quantity(ticketTypeID string) int {
	return s[ticketTypeID]
}

// Total computes the running total over the given ticket types. Types without
// a positive selected quantity contribute nothing.
func (s SelectedTickets) Total(types []TicketType) decimal.Decimal {
	total := decimal.Zero
	for _, t := range types {
		if qty := s[t.ID]; qty > 0 {
			total = total.Add(t.Price.Mul(decimal.NewFromInt(int64(qty))))
		}
	}
	return total
}

// Purchases builds the payment-request line items in ticket-type order.
// Zero-quantity selections are excluded, and selections that no longer match
// a known ticket type are dropped.
func (s SelectedTickets) Purchases(types []TicketType) []Purchase {
	purchases := make([]Purchase, 0, len(s))
	for _, t := range types {
		if qty := s[t.ID]; qty > 0 {
			purchases = append(purchases, Purchase{TicketTypeID: t.ID, Quantity: qty})
		}
	}
	return purchases
}

// Ticket is a generated admission ticket returned by the ticket-generation
// endpoint. Nothing beyond its presence is consumed by this service.
type Ticket struct {
	ID           string `json:"Id"`
	EventID      string `json:"EventId,omitempty"`
	TicketTypeID string `json:"TicketTypeId,omitempty"`
	Code         string `json:"Code,omitempty"`
}
