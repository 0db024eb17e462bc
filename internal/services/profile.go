package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"prontoticket/internal/models"
)

// ProfileBackend is the slice of the backend API the profile page needs.
type ProfileBackend interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	UpdateUser(ctx context.Context, id string, req models.UserUpdateRequest) error
}

// ProfileService assembles the profile page: the backend profile plus the
// events the user holds tickets for.
type ProfileService struct {
	backend ProfileBackend
	now     func() time.Time
}

// NewProfileService creates a new profile service.
func NewProfileService(backend ProfileBackend) *ProfileService {
	return &ProfileService{
		backend: backend,
		now:     time.Now,
	}
}

// Profile loads the user and their attended events, split into upcoming and
// past around now. Events that fail to load are logged and skipped so one
// bad reference does not blank the whole page.
func (s *ProfileService) Profile(ctx context.Context, userID string) (*ProfileData, error) {
	user, err := s.backend.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	var (
		mu     sync.Mutex
		events []models.Event
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, eventID := range user.EventsAttended {
		eventID := eventID
		g.Go(func() error {
			event, err := s.backend.GetEvent(gctx, eventID)
			if err != nil {
				log.Printf("Skipping attended event %s for user %s: %v", eventID, userID, err)
				return nil
			}
			mu.Lock()
			events = append(events, *event)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(events, func(i, j int) bool {
		return events[i].StartDateTimeUtc.Before(events[j].StartDateTimeUtc)
	})

	data := &ProfileData{User: user}
	now := s.now()
	for _, event := range events {
		if event.IsUpcoming(now) {
			data.UpcomingEvents = append(data.UpcomingEvents, event)
		} else {
			data.PastEvents = append(data.PastEvents, event)
		}
	}

	return data, nil
}

// UpdateProfile pushes edited profile fields to the backend.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req models.UserUpdateRequest) error {
	if err := s.backend.UpdateUser(ctx, userID, req); err != nil {
		return fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return nil
}
