package services

import (
	"context"
	"log"
	"sync"
	"time"

	"prontoticket/internal/models"
)

// CatalogBackend is the slice of the backend API the catalog needs.
type CatalogBackend interface {
	GetEvents(ctx context.Context) ([]models.Event, error)
}

// CatalogService serves the browsable event list: all events fetched from the
// backend, filtered to those not yet ended, searched and paginated in memory.
// The last successfully fetched list is kept so a backend failure leaves the
// previously displayed events unchanged.
type CatalogService struct {
	backend  CatalogBackend
	pageSize int
	now      func() time.Time

	mu     sync.RWMutex
	events []models.Event
}

// NewCatalogService creates a new catalog service. pageSize is the number of
// events per catalog page.
func NewCatalogService(backend CatalogBackend, pageSize int) *CatalogService {
	if pageSize <= 0 {
		pageSize = 6
	}
	return &CatalogService{
		backend:  backend,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// RefreshEvents fetches all events from the backend. On failure the cached
// list is left unchanged and the error is both logged and returned.
func (s *CatalogService) RefreshEvents(ctx context.Context) error {
	events, err := s.backend.GetEvents(ctx)
	if err != nil {
		log.Printf("Catalog refresh failed, keeping %d cached events: %v", len(s.Events()), err)
		return err
	}

	s.mu.Lock()
	s.events = events
	s.mu.Unlock()
	return nil
}

// Events returns a copy of the cached event list in backend order.
func (s *CatalogService) Events() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]models.Event, len(s.events))
	copy(events, s.events)
	return events
}

// BrowsePage refreshes the catalog and returns one page of visible events for
// the given search term. A refresh failure is tolerated: the page is served
// from the cached list.
func (s *CatalogService) BrowsePage(ctx context.Context, searchTerm string, page int) *CatalogPage {
	// Failure already logged by RefreshEvents; stale data is better than none.
	_ = s.RefreshEvents(ctx)

	visible := VisibleEvents(s.Events(), s.now(), searchTerm)
	totalPages := (len(visible) + s.pageSize - 1) / s.pageSize
	page = clampPage(page, totalPages)

	return &CatalogPage{
		Events:      Paginate(visible, s.pageSize, page),
		Page:        page,
		TotalPages:  totalPages,
		TotalEvents: len(visible),
		SearchTerm:  searchTerm,
	}
}

// VisibleEvents filters all to events that have not yet ended and match the
// search term, preserving backend order.
func VisibleEvents(all []models.Event, now time.Time, searchTerm string) []models.Event {
	visible := make([]models.Event, 0, len(all))
	for _, e := range all {
		if e.HasEnded(now) {
			continue
		}
		if !e.MatchesSearch(searchTerm) {
			continue
		}
		visible = append(visible, e)
	}
	return visible
}

// Paginate returns the pageNumber-th window of pageSize events. Page numbers
// are 1-based; out-of-range pages yield an empty slice.
func Paginate(events []models.Event, pageSize, pageNumber int) []models.Event {
	if pageSize <= 0 || pageNumber <= 0 {
		return []models.Event{}
	}

	start := (pageNumber - 1) * pageSize
	if start >= len(events) {
		return []models.Event{}
	}
	end := start + pageSize
	if end > len(events) {
		end = len(events)
	}
	return events[start:end]
}

// clampPage keeps page within [1, totalPages]. A catalog with no pages still
// reports page 1.
func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages >= 1 && page > totalPages {
		return totalPages
	}
	return page
}
