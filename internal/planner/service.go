// Package planner runs the paid decomposition flow: ledger pre-check, model
// call, deduction after a validated result, then persistence.
package planner

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"taskease/internal/decompose"
	"taskease/internal/domain"
	"taskease/internal/infra"
	"taskease/internal/ledger"
	"taskease/internal/tasks"
)

// GenerateInput is one decomposition request from a signed-in user.
type GenerateInput struct {
	Title       string
	Description string
	Existing    []domain.SubTaskDraft
	Locale      string
}

// Generation is a charged decomposition result.
type Generation struct {
	SubTasks []domain.SubTaskDraft
	Credits  *domain.CreditRecord
	Provider string
}

type Service struct {
	ledger  *ledger.Service
	tasks   *tasks.Service
	gateway decompose.Gateway
	logger  zerolog.Logger
	metrics *infra.Metrics
}

func NewService(l *ledger.Service, t *tasks.Service, gw decompose.Gateway, logger zerolog.Logger, metrics *infra.Metrics) *Service {
	return &Service{ledger: l, tasks: t, gateway: gw, logger: logger, metrics: metrics}
}

// GenerateSubtasks charges one credit for a successful decomposition. Users
// who cannot pay are rejected before the model is called, and a failed
// generation is never charged.
func (s *Service) GenerateSubtasks(ctx context.Context, userID string, in GenerateInput) (*Generation, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" {
		return nil, domain.Invalid("title", "title is required")
	}
	if in.Description == "" {
		return nil, domain.Invalid("description", "description is required")
	}
	if err := s.ledger.CanSpend(ctx, userID); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.gateway.Decompose(ctx, decompose.Request{
		Title:       in.Title,
		Description: in.Description,
		Existing:    in.Existing,
		Locale:      in.Locale,
	})
	if err != nil {
		s.metrics.ObserveDecomposition(s.gateway.Name(), "error", time.Since(start))
		s.logger.Error().Err(err).Str("user_id", userID).Msg("decomposition failed")
		return nil, err
	}
	outcome := "ok"
	if res.FallbackReason != "" {
		outcome = "fallback"
	}
	s.metrics.ObserveDecomposition(res.Provider, outcome, time.Since(start))

	rec, err := s.ledger.Deduct(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientCredits) {
			s.logger.Warn().Str("user_id", userID).Msg("balance spent concurrently, discarding generation")
		}
		return nil, err
	}
	return &Generation{SubTasks: res.SubTasks, Credits: rec, Provider: res.Provider}, nil
}

// CreateTaskWithDecomposition generates subtasks for in, appends them to any
// the user already typed and stores the task. The credit is returned when the
// task cannot be stored.
func (s *Service) CreateTaskWithDecomposition(ctx context.Context, userID string, in tasks.CreateInput, locale string) (*domain.Task, *domain.CreditRecord, error) {
	if err := s.tasks.Validate(in); err != nil {
		return nil, nil, err
	}
	gen, err := s.GenerateSubtasks(ctx, userID, GenerateInput{
		Title:       in.Title,
		Description: in.Description,
		Existing:    in.SubTasks,
		Locale:      locale,
	})
	if err != nil {
		return nil, nil, err
	}
	in.SubTasks = append(append([]domain.SubTaskDraft{}, in.SubTasks...), gen.SubTasks...)
	task, err := s.tasks.Create(ctx, userID, in)
	if err != nil {
		rec := gen.Credits
		if !rec.SubscriptionActive(rec.LastUpdated) {
			if refunded, rerr := s.ledger.Grant(context.WithoutCancel(ctx), userID, 1); rerr != nil {
				s.logger.Error().Err(rerr).Str("user_id", userID).Msg("credit refund failed")
			} else {
				rec = refunded
			}
		}
		return nil, rec, err
	}
	return task, gen.Credits, nil
}
