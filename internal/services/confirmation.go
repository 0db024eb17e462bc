package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"prontoticket/internal/models"
)

// ErrMissingConfirmation is returned when the payment provider redirects back
// without a confirmation id.
var ErrMissingConfirmation = errors.New("missing confirmation id")

// ConfirmationBackend is the slice of the backend API the confirmation step
// needs.
type ConfirmationBackend interface {
	GenerateTickets(ctx context.Context, confirmation string) ([]models.Ticket, error)
}

// confirmationEntry holds the outcome for one confirmation id. done is closed
// once the backend call finished, so concurrent callers for the same id wait
// for the first one instead of issuing their own request.
type confirmationEntry struct {
	done    chan struct{}
	outcome *ConfirmationOutcome
}

// ConfirmationService consumes payment-provider confirmation ids. Ticket
// generation debits inventory on the backend, so each confirmation id is sent
// at most once; replays of the success URL get the recorded outcome back.
type ConfirmationService struct {
	backend ConfirmationBackend

	mu      sync.Mutex
	entries map[string]*confirmationEntry
}

// NewConfirmationService creates a new confirmation service.
func NewConfirmationService(backend ConfirmationBackend) *ConfirmationService {
	return &ConfirmationService{
		backend: backend,
		entries: make(map[string]*confirmationEntry),
	}
}

// Complete turns a confirmation id into issued tickets. The first call for an
// id performs the backend request; every later call, and any call racing the
// first, returns the same recorded outcome. A failed generation is recorded
// too: the backend rejected the id, and retrying a consumed confirmation
// would double-issue if it ever went through.
func (s *ConfirmationService) Complete(ctx context.Context, confirmation string) (*ConfirmationOutcome, error) {
	if confirmation == "" {
		return nil, ErrMissingConfirmation
	}

	s.mu.Lock()
	entry, ok := s.entries[confirmation]
	if ok {
		s.mu.Unlock()
		select {
		case <-entry.done:
			return entry.outcome, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	entry = &confirmationEntry{done: make(chan struct{})}
	s.entries[confirmation] = entry
	s.mu.Unlock()

	tickets, err := s.backend.GenerateTickets(ctx, confirmation)

	outcome := &ConfirmationOutcome{
		Confirmation: confirmation,
		CompletedAt:  time.Now(),
	}
	if err != nil {
		log.Printf("Ticket generation failed for confirmation %s: %v", confirmation, err)
		outcome.Error = err.Error()
	} else {
		outcome.Succeeded = true
		outcome.Tickets = tickets
	}

	entry.outcome = outcome
	close(entry.done)

	return outcome, nil
}
