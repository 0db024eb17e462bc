package services

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"prontoticket/internal/models"
)

// AnalyticsBackend is the slice of the backend API the admin dashboard needs.
type AnalyticsBackend interface {
	GetEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetProducer(ctx context.Context, id string) (*models.Producer, error)
	CountUsers(ctx context.Context) (int, error)
	CountTransactions(ctx context.Context) (int, error)
	TotalTransactionAmount(ctx context.Context) (decimal.Decimal, error)
	SalesLastMonth(ctx context.Context) ([]models.SalesPoint, error)
	SalesLastMonthForEvent(ctx context.Context, eventID string) ([]models.SalesPoint, error)
	SalesLast12Months(ctx context.Context) ([]models.SalesPoint, error)
	EventRevenue(ctx context.Context, eventID string) (decimal.Decimal, error)
	EventTicketsSold(ctx context.Context, eventID string) (int, error)
}

// AnalyticsService aggregates backend numbers for the admin dashboard.
type AnalyticsService struct {
	backend AnalyticsBackend
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(backend AnalyticsBackend) *AnalyticsService {
	return &AnalyticsService{backend: backend}
}

// DashboardStats fetches the headline numbers and chart series concurrently.
// Each aggregate degrades independently: a failed fetch is logged and its
// field stays zero so the dashboard still renders the rest.
func (s *AnalyticsService) DashboardStats(ctx context.Context) *DashboardStats {
	stats := &DashboardStats{TotalAmount: decimal.Zero}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, err := s.backend.GetEvents(gctx)
		if err != nil {
			log.Printf("Dashboard: failed to count events: %v", err)
			return nil
		}
		stats.TotalEvents = len(events)
		return nil
	})
	g.Go(func() error {
		n, err := s.backend.CountUsers(gctx)
		if err != nil {
			log.Printf("Dashboard: failed to count users: %v", err)
			return nil
		}
		stats.TotalUsers = n
		return nil
	})
	g.Go(func() error {
		n, err := s.backend.CountTransactions(gctx)
		if err != nil {
			log.Printf("Dashboard: failed to count transactions: %v", err)
			return nil
		}
		stats.TotalTransactions = n
		return nil
	})
	g.Go(func() error {
		total, err := s.backend.TotalTransactionAmount(gctx)
		if err != nil {
			log.Printf("Dashboard: failed to fetch total amount: %v", err)
			return nil
		}
		stats.TotalAmount = total
		return nil
	})
	g.Go(func() error {
		points, err := s.backend.SalesLastMonth(gctx)
		if err != nil {
			log.Printf("Dashboard: failed to fetch last month sales: %v", err)
			return nil
		}
		stats.SalesLastMonth = points
		return nil
	})
	g.Go(func() error {
		points, err := s.backend.SalesLast12Months(gctx)
		if err != nil {
			log.Printf("Dashboard: failed to fetch yearly sales: %v", err)
			return nil
		}
		stats.SalesLast12Months = points
		return nil
	})
	_ = g.Wait()

	return stats
}

// EventStats fetches the per-event admin numbers. The event itself is
// required; the producer name and the aggregates degrade like the dashboard.
func (s *AnalyticsService) EventStats(ctx context.Context, eventID string) (*EventStats, error) {
	event, err := s.backend.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event %s: %w", eventID, err)
	}

	stats := &EventStats{Event: event, Revenue: decimal.Zero}

	g, gctx := errgroup.WithContext(ctx)
	if event.ProducerID != "" {
		g.Go(func() error {
			producer, err := s.backend.GetProducer(gctx, event.ProducerID)
			if err != nil {
				log.Printf("Event stats: failed to load producer %s: %v", event.ProducerID, err)
				return nil
			}
			stats.ProducerName = producer.Name
			return nil
		})
	}
	g.Go(func() error {
		revenue, err := s.backend.EventRevenue(gctx, eventID)
		if err != nil {
			log.Printf("Event stats: failed to fetch revenue for %s: %v", eventID, err)
			return nil
		}
		stats.Revenue = revenue
		return nil
	})
	g.Go(func() error {
		sold, err := s.backend.EventTicketsSold(gctx, eventID)
		if err != nil {
			log.Printf("Event stats: failed to fetch tickets sold for %s: %v", eventID, err)
			return nil
		}
		stats.TicketsSold = sold
		return nil
	})
	g.Go(func() error {
		points, err := s.backend.SalesLastMonthForEvent(gctx, eventID)
		if err != nil {
			log.Printf("Event stats: failed to fetch monthly sales for %s: %v", eventID, err)
			return nil
		}
		stats.SalesLastMonth = points
		return nil
	})
	_ = g.Wait()

	return stats, nil
}
