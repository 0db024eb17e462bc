package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"prontoticket/internal/models"
	"prontoticket/internal/services"
)

// MockConfirmationService for testing
type MockConfirmationService struct {
	mock.Mock
}

func (m *MockConfirmationService) Complete(ctx context.Context, confirmation string) (*services.ConfirmationOutcome, error) {
	args := m.Called(ctx, confirmation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ConfirmationOutcome), args.Error(1)
}

func paymentRouter(service services.ConfirmationServiceInterface) chi.Router {
	handler := NewPaymentHandler(service, newTestStore())

	r := chi.NewRouter()
	r.Get("/payments/success/{transactionId}", handler.Success)
	r.Get("/payments/failed", handler.Failed)
	return r
}

func TestPaymentSuccess(t *testing.T) {
	service := new(MockConfirmationService)
	service.On("Complete", mock.Anything, "txn-1").Return(&services.ConfirmationOutcome{
		Confirmation: "txn-1",
		Succeeded:    true,
		Tickets:      []models.Ticket{{ID: "tik-1"}},
		CompletedAt:  time.Now(),
	}, nil)

	router := paymentRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/payments/success/txn-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var outcome services.ConfirmationOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.True(t, outcome.Succeeded)
	assert.Len(t, outcome.Tickets, 1)
}

func TestPaymentSuccessWithFailedGeneration(t *testing.T) {
	service := new(MockConfirmationService)
	service.On("Complete", mock.Anything, "txn-bad").Return(&services.ConfirmationOutcome{
		Confirmation: "txn-bad",
		Succeeded:    false,
		Error:        "confirmation already consumed",
		CompletedAt:  time.Now(),
	}, nil)

	router := paymentRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/payments/success/txn-bad", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// A recorded failure is surfaced distinctly, not as a success page.
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "already consumed")
}

func TestPaymentFailed(t *testing.T) {
	router := paymentRouter(new(MockConfirmationService))

	req := httptest.NewRequest(http.MethodGet, "/payments/failed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "still available")
}
