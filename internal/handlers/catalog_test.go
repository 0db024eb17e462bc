package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"prontoticket/internal/backend"
	"prontoticket/internal/models"
	"prontoticket/internal/services"
)

// MockCatalogService for testing
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) RefreshEvents(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCatalogService) Events() []models.Event {
	args := m.Called()
	return args.Get(0).([]models.Event)
}

func (m *MockCatalogService) BrowsePage(ctx context.Context, searchTerm string, page int) *services.CatalogPage {
	args := m.Called(ctx, searchTerm, page)
	return args.Get(0).(*services.CatalogPage)
}

// MockEventDetailFetcher for testing
type MockEventDetailFetcher struct {
	mock.Mock
}

func (m *MockEventDetailFetcher) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventDetailFetcher) GetTicketTypes(ctx context.Context, eventID string) ([]models.TicketType, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TicketType), args.Error(1)
}

func catalogTestRouter(catalogService services.CatalogServiceInterface, events EventDetailFetcher) chi.Router {
	handler := NewCatalogHandler(catalogService, events)

	r := chi.NewRouter()
	r.Get("/events", handler.ListEvents)
	r.Get("/events/{id}", handler.GetEvent)
	return r
}

func TestListEvents(t *testing.T) {
	catalogService := new(MockCatalogService)
	catalogService.On("BrowsePage", mock.Anything, "jazz", 2).Return(&services.CatalogPage{
		Events:      []models.Event{{ID: "evt-1", Name: "Summer Jazz Festival"}},
		Page:        2,
		TotalPages:  3,
		TotalEvents: 13,
		SearchTerm:  "jazz",
	})

	router := catalogTestRouter(catalogService, new(MockEventDetailFetcher))

	req := httptest.NewRequest(http.MethodGet, "/events?q=jazz&page=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var page services.CatalogPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 13, page.TotalEvents)
	require.Len(t, page.Events, 1)
	assert.Equal(t, "evt-1", page.Events[0].ID)
}

func TestListEventsDefaultsToPageOne(t *testing.T) {
	catalogService := new(MockCatalogService)
	catalogService.On("BrowsePage", mock.Anything, "", 1).Return(&services.CatalogPage{Page: 1})

	router := catalogTestRouter(catalogService, new(MockEventDetailFetcher))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	catalogService.AssertExpectations(t)
}

func TestListEventsRejectsBadPageNumber(t *testing.T) {
	router := catalogTestRouter(new(MockCatalogService), new(MockEventDetailFetcher))

	req := httptest.NewRequest(http.MethodGet, "/events?page=two", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEvent(t *testing.T) {
	events := new(MockEventDetailFetcher)
	events.On("GetEvent", mock.Anything, "evt-1").
		Return(&models.Event{ID: "evt-1", Name: "Summer Jazz Festival"}, nil)
	events.On("GetTicketTypes", mock.Anything, "evt-1").
		Return([]models.TicketType{{ID: "tt-1", EventID: "evt-1"}}, nil)

	router := catalogTestRouter(new(MockCatalogService), events)

	req := httptest.NewRequest(http.MethodGet, "/events/evt-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Event       models.Event        `json:"event"`
		TicketTypes []models.TicketType `json:"ticketTypes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "evt-1", resp.Event.ID)
	assert.Len(t, resp.TicketTypes, 1)
}

func TestGetEventNotFound(t *testing.T) {
	events := new(MockEventDetailFetcher)
	events.On("GetEvent", mock.Anything, "missing").Return(nil, backend.ErrNotFound)

	router := catalogTestRouter(new(MockCatalogService), events)

	req := httptest.NewRequest(http.MethodGet, "/events/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
