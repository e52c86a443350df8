// Package ledger owns the per-user credit balance and subscription window.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"taskease/internal/domain"
	"taskease/internal/infra"
)

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	StartingCredits int
	PromoCredits    int
	Logger          zerolog.Logger
	Metrics         *infra.Metrics
	Now             func() time.Time
}

// Service is the credit ledger. Every balance mutation goes through a single
// conditional statement in the repository.
type Service struct {
	repo            domain.CreditRepository
	startingCredits int
	promoCredits    int
	logger          zerolog.Logger
	metrics         *infra.Metrics
	now             func() time.Time
}

func NewService(repo domain.CreditRepository, opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	starting := opts.StartingCredits
	if starting < 0 {
		starting = 0
	}
	return &Service{
		repo:            repo,
		startingCredits: starting,
		promoCredits:    opts.PromoCredits,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
		now:             now,
	}
}

// Initialize creates the record with the starting balance when absent. A
// second call returns the existing record unchanged.
func (s *Service) Initialize(ctx context.Context, userID, email string) (*domain.CreditRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.Invalid("userId", "user id is required")
	}
	rec, err := s.repo.Initialize(ctx, userID, strings.TrimSpace(email), s.startingCredits)
	if err != nil {
		return nil, fmt.Errorf("initialize credits: %w", err)
	}
	return rec, nil
}

// GetOrInitialize reads the record, creating it first when the user has none.
func (s *Service) GetOrInitialize(ctx context.Context, userID, email string) (*domain.CreditRecord, error) {
	rec, err := s.repo.Get(ctx, userID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get credits: %w", err)
	}
	return s.Initialize(ctx, userID, email)
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.CreditRecord, error) {
	return s.repo.Get(ctx, userID)
}

// CanSpend is the non-mutating pre-check run before any paid upstream call.
// It returns ErrInsufficientCredits when a deduction would be rejected.
func (s *Service) CanSpend(ctx context.Context, userID string) error {
	rec, err := s.repo.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		s.metrics.CreditOp("precheck", "rejected")
		return domain.ErrInsufficientCredits
	}
	if err != nil {
		return fmt.Errorf("get credits: %w", err)
	}
	if !rec.CanSpend(s.now()) {
		s.metrics.CreditOp("precheck", "rejected")
		return domain.ErrInsufficientCredits
	}
	return nil
}

// Deduct spends one credit, or nothing while the subscription window is open.
func (s *Service) Deduct(ctx context.Context, userID string) (*domain.CreditRecord, error) {
	rec, err := s.repo.Deduct(ctx, userID, s.now().UTC())
	if errors.Is(err, domain.ErrInsufficientCredits) {
		s.metrics.CreditOp("deduct", "rejected")
		return nil, err
	}
	if err != nil {
		s.metrics.CreditOp("deduct", "error")
		return nil, fmt.Errorf("deduct credit: %w", err)
	}
	s.metrics.CreditOp("deduct", "ok")
	s.logger.Debug().Str("user_id", userID).Int("credits", rec.Credits).Bool("subscribed", rec.IsSubscribed).Msg("credit deducted")
	return rec, nil
}

func (s *Service) Grant(ctx context.Context, userID string, amount int) (*domain.CreditRecord, error) {
	if amount <= 0 {
		return nil, domain.Invalid("amount", "amount must be positive")
	}
	rec, err := s.repo.Grant(ctx, userID, amount)
	if err != nil {
		s.metrics.CreditOp("grant", "error")
		return nil, fmt.Errorf("grant credits: %w", err)
	}
	s.metrics.CreditOp("grant", "ok")
	s.logger.Info().Str("user_id", userID).Int("amount", amount).Int("credits", rec.Credits).Msg("credits granted")
	return rec, nil
}

// SetCredits overwrites the balance. Admin tooling only.
func (s *Service) SetCredits(ctx context.Context, userID string, amount int) (*domain.CreditRecord, error) {
	if amount < 0 {
		return nil, domain.Invalid("credits", "credits must not be negative")
	}
	rec, err := s.repo.Set(ctx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("set credits: %w", err)
	}
	s.metrics.CreditOp("set", "ok")
	s.logger.Info().Str("user_id", userID).Int("credits", amount).Msg("credits set")
	return rec, nil
}

// SetSubscription opens a one-month window when active and clears it otherwise.
func (s *Service) SetSubscription(ctx context.Context, userID string, active bool) (*domain.CreditRecord, error) {
	var ends *time.Time
	if active {
		end := domain.SubscriptionPeriodEnd(s.now().UTC())
		ends = &end
	}
	rec, err := s.repo.SetSubscription(ctx, userID, active, ends)
	if err != nil {
		return nil, fmt.Errorf("set subscription: %w", err)
	}
	s.metrics.CreditOp("subscription", "ok")
	s.logger.Info().Str("user_id", userID).Bool("active", active).Msg("subscription updated")
	return rec, nil
}

// ClaimPromo grants the promotional top-up at most once per user.
func (s *Service) ClaimPromo(ctx context.Context, userID string) (*domain.CreditRecord, error) {
	if s.promoCredits <= 0 {
		return nil, domain.ErrPromoClaimed
	}
	rec, err := s.repo.ClaimPromo(ctx, userID, s.promoCredits, s.now().UTC())
	if errors.Is(err, domain.ErrPromoClaimed) {
		s.metrics.CreditOp("promo", "rejected")
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("claim promo: %w", err)
	}
	s.metrics.CreditOp("promo", "ok")
	return rec, nil
}

func (s *Service) List(ctx context.Context, limit int) ([]domain.CreditRecord, error) {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	return s.repo.List(ctx, limit)
}

// Delete removes the ledger record. Missing records are not an error.
func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete credits: %w", err)
	}
	return nil
}
