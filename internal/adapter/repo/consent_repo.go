package repo

import (
	"context"

	"taskease/internal/domain"
	"taskease/internal/infra"
	"taskease/internal/sqlinline"
)

// ConsentRepositoryPG appends consent audit rows.
type ConsentRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewConsentRepository(sql infra.SQLExecutor) *ConsentRepositoryPG {
	return &ConsentRepositoryPG{sql: sql}
}

func (r *ConsentRepositoryPG) Record(ctx context.Context, c domain.Consent) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertConsent, c.UserID, string(c.Kind), c.Granted, c.CreatedAt)
	return err
}

var _ domain.ConsentRepository = (*ConsentRepositoryPG)(nil)
