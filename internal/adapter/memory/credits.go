package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taskease/internal/domain"
)

// CreditStore implements domain.CreditRepository.
type CreditStore struct {
	mu      sync.Mutex
	records map[string]domain.CreditRecord
	now     func() time.Time
}

func NewCreditStore() *CreditStore {
	return &CreditStore{records: map[string]domain.CreditRecord{}, now: time.Now}
}

func (s *CreditStore) Initialize(_ context.Context, userID, email string, startingCredits int) (*domain.CreditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[userID]; ok {
		return &rec, nil
	}
	rec := domain.CreditRecord{
		UserID:      userID,
		Email:       strings.ToLower(email),
		Credits:     startingCredits,
		LastUpdated: s.now().UTC(),
	}
	s.records[userID] = rec
	return &rec, nil
}

func (s *CreditStore) Get(_ context.Context, userID string) (*domain.CreditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (s *CreditStore) Deduct(_ context.Context, userID string, now time.Time) (*domain.CreditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok || !rec.CanSpend(now) {
		return nil, domain.ErrInsufficientCredits
	}
	if !rec.SubscriptionActive(now) {
		rec.Credits--
	}
	rec.LastUpdated = now
	s.records[userID] = rec
	return &rec, nil
}

func (s *CreditStore) Grant(_ context.Context, userID string, amount int) (*domain.CreditRecord, error) {
	return s.update(userID, func(rec *domain.CreditRecord) error {
		rec.Credits += amount
		return nil
	})
}

func (s *CreditStore) Set(_ context.Context, userID string, credits int) (*domain.CreditRecord, error) {
	return s.update(userID, func(rec *domain.CreditRecord) error {
		rec.Credits = credits
		return nil
	})
}

func (s *CreditStore) SetSubscription(_ context.Context, userID string, active bool, ends *time.Time) (*domain.CreditRecord, error) {
	return s.update(userID, func(rec *domain.CreditRecord) error {
		rec.IsSubscribed = active
		rec.SubscriptionEnds = copyTime(ends)
		return nil
	})
}

func (s *CreditStore) ClaimPromo(_ context.Context, userID string, amount int, now time.Time) (*domain.CreditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok || rec.PromoClaimedAt != nil {
		return nil, domain.ErrPromoClaimed
	}
	rec.Credits += amount
	rec.PromoClaimedAt = copyTime(&now)
	rec.LastUpdated = now
	s.records[userID] = rec
	return &rec, nil
}

func (s *CreditStore) List(_ context.Context, limit int) ([]domain.CreditRecord, error) {
	s.mu.Lock()
	items := make([]domain.CreditRecord, 0, len(s.records))
	for _, rec := range s.records {
		items = append(items, rec)
	}
	s.mu.Unlock()

	sort.Slice(items, func(i, j int) bool {
		return items[i].LastUpdated.After(items[j].LastUpdated)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *CreditStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records, userID)
	return nil
}

func (s *CreditStore) update(userID string, fn func(rec *domain.CreditRecord) error) (*domain.CreditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := fn(&rec); err != nil {
		return nil, err
	}
	rec.LastUpdated = s.now().UTC()
	s.records[userID] = rec
	return &rec, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

var _ domain.CreditRepository = (*CreditStore)(nil)
