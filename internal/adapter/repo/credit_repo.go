package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"taskease/internal/domain"
	"taskease/internal/infra"
	"taskease/internal/sqlinline"
)

// CreditRepositoryPG implements domain.CreditRepository backed by PostgreSQL.
type CreditRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewCreditRepository creates a new CreditRepositoryPG.
func NewCreditRepository(sql infra.SQLExecutor) *CreditRepositoryPG {
	return &CreditRepositoryPG{sql: sql}
}

// Initialize creates the record with the starting balance or returns the
// existing one unchanged. An empty upsert result falls back to a plain read.
func (r *CreditRepositoryPG) Initialize(ctx context.Context, userID, email string, startingCredits int) (*domain.CreditRecord, error) {
	rec, err := scanCredit(r.sql.QueryRow(ctx, sqlinline.QInitCredits, userID, email, startingCredits))
	if errors.Is(err, domain.ErrNotFound) {
		return r.Get(ctx, userID)
	}
	return rec, err
}

func (r *CreditRepositoryPG) Get(ctx context.Context, userID string) (*domain.CreditRecord, error) {
	return scanCredit(r.sql.QueryRow(ctx, sqlinline.QSelectCredits, userID))
}

// Deduct runs the conditional decrement; an empty result means the
// precondition failed (or the record does not exist).
func (r *CreditRepositoryPG) Deduct(ctx context.Context, userID string, now time.Time) (*domain.CreditRecord, error) {
	rec, err := scanCredit(r.sql.QueryRow(ctx, sqlinline.QDeductCredit, userID, now))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInsufficientCredits
	}
	return rec, err
}

func (r *CreditRepositoryPG) Grant(ctx context.Context, userID string, amount int) (*domain.CreditRecord, error) {
	return scanCredit(r.sql.QueryRow(ctx, sqlinline.QGrantCredits, userID, amount))
}

func (r *CreditRepositoryPG) Set(ctx context.Context, userID string, credits int) (*domain.CreditRecord, error) {
	return scanCredit(r.sql.QueryRow(ctx, sqlinline.QSetCredits, userID, credits))
}

func (r *CreditRepositoryPG) SetSubscription(ctx context.Context, userID string, active bool, ends *time.Time) (*domain.CreditRecord, error) {
	return scanCredit(r.sql.QueryRow(ctx, sqlinline.QSetSubscription, userID, active, ends))
}

func (r *CreditRepositoryPG) ClaimPromo(ctx context.Context, userID string, amount int, now time.Time) (*domain.CreditRecord, error) {
	rec, err := scanCredit(r.sql.QueryRow(ctx, sqlinline.QClaimPromo, userID, amount, now))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrPromoClaimed
	}
	return rec, err
}

func (r *CreditRepositoryPG) List(ctx context.Context, limit int) ([]domain.CreditRecord, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListCredits, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CreditRecord
	for rows.Next() {
		rec, err := scanCredit(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CreditRepositoryPG) Delete(ctx context.Context, userID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteCredits, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCredit(row pgx.Row) (*domain.CreditRecord, error) {
	var rec domain.CreditRecord
	if err := row.Scan(&rec.UserID, &rec.Email, &rec.Credits, &rec.LastUpdated, &rec.IsSubscribed, &rec.SubscriptionEnds, &rec.PromoClaimedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

var _ domain.CreditRepository = (*CreditRepositoryPG)(nil)
