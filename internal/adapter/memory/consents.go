package memory

import (
	"context"
	"sync"

	"taskease/internal/domain"
)

// ConsentStore implements domain.ConsentRepository as an append-only slice.
type ConsentStore struct {
	mu      sync.Mutex
	entries []domain.Consent
}

func NewConsentStore() *ConsentStore {
	return &ConsentStore{}
}

func (s *ConsentStore) Record(_ context.Context, consent domain.Consent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, consent)
	return nil
}

// Entries returns a copy of the recorded consents in insertion order.
func (s *ConsentStore) Entries() []domain.Consent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Consent, len(s.entries))
	copy(out, s.entries)
	return out
}

var _ domain.ConsentRepository = (*ConsentStore)(nil)
