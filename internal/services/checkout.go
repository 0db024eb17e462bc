package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"prontoticket/internal/models"
)

// CheckoutState is the phase a checkout session is in. Transitions are
// linear: Loading -> Ready -> Submitting -> Redirected, with a failed
// submission dropping back to Ready.
type CheckoutState string

const (
	CheckoutStateLoading    CheckoutState = "loading"
	CheckoutStateReady      CheckoutState = "ready"
	CheckoutStateSubmitting CheckoutState = "submitting"
	CheckoutStateRedirected CheckoutState = "redirected"
)

var (
	// ErrCheckoutNotFound is returned for an unknown or expired checkout id.
	ErrCheckoutNotFound = errors.New("checkout session not found")
	// ErrSubmitInFlight is returned when a submission is already pending for
	// this checkout. Exactly one payment-link request may be in flight.
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	// ErrCheckoutCompleted is returned for operations on a checkout that has
	// already been redirected to the payment provider.
	ErrCheckoutCompleted = errors.New("checkout has already completed")
	// ErrUnknownTicketType is returned when a quantity update names a ticket
	// type that does not belong to the checkout's event.
	ErrUnknownTicketType = errors.New("unknown ticket type for this event")
	// ErrNoTicketsSelected is returned when a submission has no positive
	// ticket quantities.
	ErrNoTicketsSelected = errors.New("no tickets selected")
)

// CheckoutBackend is the slice of the backend API the checkout flow needs.
type CheckoutBackend interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetTicketTypes(ctx context.Context, eventID string) ([]models.TicketType, error)
	CreatePaymentLink(ctx context.Context, req models.PaymentRequest) (string, error)
}

// checkout is one in-flight ticket purchase for a single event. All fields
// are guarded by mu.
type checkout struct {
	mu sync.Mutex

	id          string
	state       CheckoutState
	event       *models.Event
	ticketTypes []models.TicketType
	selected    models.SelectedTickets
	buyer       models.BuyerDetails
	promoCode   string
	userID      string
	lastError   string
	createdAt   time.Time
}

// CheckoutView is an immutable snapshot of a checkout session, safe to hand
// to handlers and encode as JSON.
type CheckoutView struct {
	ID          string                 `json:"id"`
	State       CheckoutState          `json:"state"`
	Event       *models.Event          `json:"event"`
	TicketTypes []models.TicketType    `json:"ticketTypes"`
	Selected    models.SelectedTickets `json:"selected"`
	Buyer       models.BuyerDetails    `json:"buyer"`
	BuyerLocked bool                   `json:"buyerLocked"`
	PromoCode   string                 `json:"promoCode,omitempty"`
	Total       decimal.Decimal        `json:"total"`
	LastError   string                 `json:"lastError,omitempty"`
}

// view builds a snapshot. Caller must hold c.mu.
func (c *checkout) view() CheckoutView {
	selected := make(models.SelectedTickets, len(c.selected))
	for id, qty := range c.selected {
		selected[id] = qty
	}
	types := make([]models.TicketType, len(c.ticketTypes))
	copy(types, c.ticketTypes)

	return CheckoutView{
		ID:          c.id,
		State:       c.state,
		Event:       c.event,
		TicketTypes: types,
		Selected:    selected,
		Buyer:       c.buyer,
		BuyerLocked: c.userID != "",
		PromoCode:   c.promoCode,
		Total:       c.selected.Total(c.ticketTypes),
		LastError:   c.lastError,
	}
}

// CheckoutService manages checkout sessions in memory. Sessions are keyed by
// a uuid kept in the visitor's cookie session and expire after ttl so
// abandoned checkouts (and their selected tickets) are discarded.
type CheckoutService struct {
	backend  CheckoutBackend
	validate *validator.Validate
	ttl      time.Duration

	mu        sync.RWMutex
	checkouts map[string]*checkout

	stop     chan struct{}
	stopOnce sync.Once
}

// NewCheckoutService creates a new checkout service and starts the expiry
// sweeper. Close must be called to stop it.
func NewCheckoutService(backend CheckoutBackend, ttl time.Duration) *CheckoutService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	s := &CheckoutService{
		backend:   backend,
		validate:  validator.New(),
		ttl:       ttl,
		checkouts: make(map[string]*checkout),
		stop:      make(chan struct{}),
	}

	go s.sweep()

	return s
}

// Close stops the expiry sweeper.
func (s *CheckoutService) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// sweep periodically removes expired checkout sessions.
func (s *CheckoutService) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, c := range s.checkouts {
				if now.Sub(c.createdAt) > s.ttl {
					delete(s.checkouts, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Begin starts a checkout for one event. The event and its ticket types are
// fetched concurrently and the session only becomes Ready when both arrive;
// either failure fails the whole load. A session user prefills and locks the
// buyer details.
func (s *CheckoutService) Begin(ctx context.Context, eventID string, user *models.User) (CheckoutView, error) {
	c := &checkout{
		id:        uuid.NewString(),
		state:     CheckoutStateLoading,
		selected:  models.SelectedTickets{},
		createdAt: time.Now(),
	}
	if user != nil {
		c.userID = user.ID
		c.buyer.FromUser(user)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		event, err := s.backend.GetEvent(gctx, eventID)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.event = event
		c.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		types, err := s.backend.GetTicketTypes(gctx, eventID)
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.ticketTypes = types
		c.mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		return CheckoutView{}, fmt.Errorf("failed to load checkout for event %s: %w", eventID, err)
	}

	c.mu.Lock()
	c.state = CheckoutStateReady
	view := c.view()
	c.mu.Unlock()

	s.mu.Lock()
	s.checkouts[c.id] = c
	s.mu.Unlock()

	return view, nil
}

// get looks up a live checkout session.
func (s *CheckoutService) get(checkoutID string) (*checkout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.checkouts[checkoutID]
	if !ok {
		return nil, ErrCheckoutNotFound
	}
	return c, nil
}

// View returns a snapshot of a checkout session.
func (s *CheckoutService) View(checkoutID string) (CheckoutView, error) {
	c, err := s.get(checkoutID)
	if err != nil {
		return CheckoutView{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view(), nil
}

// SetQuantity records the requested quantity for one of the event's ticket
// types. Negative quantities clamp to zero; an upper bound against remaining
// inventory is the backend's responsibility.
func (s *CheckoutService) SetQuantity(checkoutID, ticketTypeID string, quantity int) (CheckoutView, error) {
	c, err := s.get(checkoutID)
	if err != nil {
		return CheckoutView{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == CheckoutStateSubmitting {
		return CheckoutView{}, ErrSubmitInFlight
	}
	if c.state == CheckoutStateRedirected {
		return CheckoutView{}, ErrCheckoutCompleted
	}

	known := false
	for _, t := range c.ticketTypes {
		if t.ID == ticketTypeID {
			known = true
			break
		}
	}
	if !known {
		return CheckoutView{}, ErrUnknownTicketType
	}

	c.selected.SetQuantity(ticketTypeID, quantity)
	return c.view(), nil
}

// UpdateBuyer sets the buyer contact details and promo code. When a session
// user started the checkout the contact details are locked to the profile and
// only the promo code is taken from the update.
func (s *CheckoutService) UpdateBuyer(checkoutID string, buyer models.BuyerDetails, promoCode string) (CheckoutView, error) {
	c, err := s.get(checkoutID)
	if err != nil {
		return CheckoutView{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == CheckoutStateSubmitting {
		return CheckoutView{}, ErrSubmitInFlight
	}
	if c.state == CheckoutStateRedirected {
		return CheckoutView{}, ErrCheckoutCompleted
	}

	if c.userID == "" {
		c.buyer = buyer
	}
	c.promoCode = promoCode
	return c.view(), nil
}

// Submit builds the payment request and asks the backend for a provider
// redirect link. Exactly one submission may be in flight per checkout; a
// concurrent call returns ErrSubmitInFlight without issuing a request. On
// failure the checkout returns to Ready with quantities, buyer details and
// promo code preserved.
func (s *CheckoutService) Submit(ctx context.Context, checkoutID string) (string, error) {
	c, err := s.get(checkoutID)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	switch c.state {
	case CheckoutStateSubmitting:
		c.mu.Unlock()
		return "", ErrSubmitInFlight
	case CheckoutStateRedirected:
		c.mu.Unlock()
		return "", ErrCheckoutCompleted
	}

	req := models.PaymentRequest{
		UserID:      c.userID,
		EventID:     c.event.ID,
		FirstName:   c.buyer.FirstName,
		LastName:    c.buyer.LastName,
		Email:       c.buyer.Email,
		PhoneNumber: c.buyer.PhoneNumber,
		Purchases:   c.selected.Purchases(c.ticketTypes),
		PromoCode:   c.promoCode,
	}
	if len(req.Purchases) == 0 {
		c.mu.Unlock()
		return "", ErrNoTicketsSelected
	}
	if err := s.validate.Struct(req); err != nil {
		c.lastError = "Please fill in your contact details."
		c.mu.Unlock()
		return "", fmt.Errorf("invalid payment request: %w", err)
	}

	c.state = CheckoutStateSubmitting
	c.lastError = ""
	c.mu.Unlock()

	redirectURL, err := s.backend.CreatePaymentLink(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		log.Printf("Payment link request failed for checkout %s: %v", c.id, err)
		c.state = CheckoutStateReady
		c.lastError = "We could not start your payment. Please try again."
		return "", err
	}

	c.state = CheckoutStateRedirected

	// The purchase has left this service's hands; drop the session so the
	// selected tickets are cleared.
	s.mu.Lock()
	delete(s.checkouts, c.id)
	s.mu.Unlock()

	return redirectURL, nil
}

// Abandon discards a checkout session and its selected tickets.
func (s *CheckoutService) Abandon(checkoutID string) {
	s.mu.Lock()
	delete(s.checkouts, checkoutID)
	s.mu.Unlock()
}
