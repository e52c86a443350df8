package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taskease/internal/domain"
)

// AdminStore implements domain.AdminRepository. Emails compare case-insensitively.
type AdminStore struct {
	mu     sync.RWMutex
	admins map[string]domain.Admin
}

func NewAdminStore() *AdminStore {
	return &AdminStore{admins: map[string]domain.Admin{}}
}

func (s *AdminStore) IsAdmin(_ context.Context, email string) (bool, error) {
	key := normalizeEmail(email)
	if key == "" {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.admins[key]
	return ok, nil
}

func (s *AdminStore) Add(_ context.Context, admin domain.Admin) error {
	key := normalizeEmail(admin.Email)
	if key == "" {
		return domain.Invalid("email", "email is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[key]; ok {
		return nil
	}
	admin.Email = key
	if admin.AddedAt.IsZero() {
		admin.AddedAt = time.Now().UTC()
	}
	s.admins[key] = admin
	return nil
}

func (s *AdminStore) List(_ context.Context) ([]domain.Admin, error) {
	s.mu.RLock()
	items := make([]domain.Admin, 0, len(s.admins))
	for _, a := range s.admins {
		items = append(items, a)
	}
	s.mu.RUnlock()
	sort.Slice(items, func(i, j int) bool {
		if items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].Email < items[j].Email
		}
		return items[i].AddedAt.Before(items[j].AddedAt)
	})
	return items, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ domain.AdminRepository = (*AdminStore)(nil)
