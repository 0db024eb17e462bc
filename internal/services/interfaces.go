package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"prontoticket/internal/models"
)

// CatalogServiceInterface defines the interface for the event catalog.
type CatalogServiceInterface interface {
	RefreshEvents(ctx context.Context) error
	Events() []models.Event
	BrowsePage(ctx context.Context, searchTerm string, page int) *CatalogPage
}

// CheckoutServiceInterface defines the interface for checkout sessions.
type CheckoutServiceInterface interface {
	Begin(ctx context.Context, eventID string, user *models.User) (CheckoutView, error)
	View(checkoutID string) (CheckoutView, error)
	SetQuantity(checkoutID, ticketTypeID string, quantity int) (CheckoutView, error)
	UpdateBuyer(checkoutID string, buyer models.BuyerDetails, promoCode string) (CheckoutView, error)
	Submit(ctx context.Context, checkoutID string) (string, error)
	Abandon(checkoutID string)
}

// ConfirmationServiceInterface defines the interface for the post-payment
// callback.
type ConfirmationServiceInterface interface {
	Complete(ctx context.Context, confirmation string) (*ConfirmationOutcome, error)
}

// AuthServiceInterface defines the interface for authentication against the
// backend.
type AuthServiceInterface interface {
	SignIn(ctx context.Context, email, password string) (*models.User, string, error)
	SignUp(ctx context.Context, req models.SignupRequest) error
}

// ProfileServiceInterface defines the interface for profile page data.
type ProfileServiceInterface interface {
	Profile(ctx context.Context, userID string) (*ProfileData, error)
	UpdateProfile(ctx context.Context, userID string, req models.UserUpdateRequest) error
}

// AnalyticsServiceInterface defines the interface for admin dashboard
// aggregates.
type AnalyticsServiceInterface interface {
	DashboardStats(ctx context.Context) *DashboardStats
	EventStats(ctx context.Context, eventID string) (*EventStats, error)
}

// CatalogPage is one page of the browsable event catalog.
type CatalogPage struct {
	Events      []models.Event `json:"events"`
	Page        int            `json:"page"`
	TotalPages  int            `json:"totalPages"`
	TotalEvents int            `json:"totalEvents"`
	SearchTerm  string         `json:"searchTerm,omitempty"`
}

// ProfileData is everything the profile page shows: the backend profile and
// the user's attended events split around now.
type ProfileData struct {
	User           *models.User   `json:"user"`
	UpcomingEvents []models.Event `json:"upcomingEvents"`
	PastEvents     []models.Event `json:"pastEvents"`
}

// DashboardStats are the admin dashboard headline numbers and chart series.
type DashboardStats struct {
	TotalEvents       int                 `json:"totalEvents"`
	TotalUsers        int                 `json:"totalUsers"`
	TotalTransactions int                 `json:"totalTransactions"`
	TotalAmount       decimal.Decimal     `json:"totalAmount"`
	SalesLastMonth    []models.SalesPoint `json:"salesLastMonth"`
	SalesLast12Months []models.SalesPoint `json:"salesLast12Months"`
}

// EventStats are the per-event admin numbers.
type EventStats struct {
	Event          *models.Event       `json:"event"`
	ProducerName   string              `json:"producerName"`
	Revenue        decimal.Decimal     `json:"revenue"`
	TicketsSold    int                 `json:"ticketsSold"`
	SalesLastMonth []models.SalesPoint `json:"salesLastMonth"`
}

// ConfirmationOutcome records the result of consuming one confirmation id.
type ConfirmationOutcome struct {
	Confirmation string          `json:"confirmation"`
	Succeeded    bool            `json:"succeeded"`
	Tickets      []models.Ticket `json:"tickets,omitempty"`
	Error        string          `json:"error,omitempty"`
	CompletedAt  time.Time       `json:"completedAt"`
}
