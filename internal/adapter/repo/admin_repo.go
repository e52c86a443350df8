package repo

import (
	"context"
	"strings"

	"taskease/internal/domain"
	"taskease/internal/infra"
	"taskease/internal/sqlinline"
)

// AdminRepositoryPG implements domain.AdminRepository.
type AdminRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAdminRepository creates a new AdminRepositoryPG.
func NewAdminRepository(sql infra.SQLExecutor) *AdminRepositoryPG {
	return &AdminRepositoryPG{sql: sql}
}

func (r *AdminRepositoryPG) IsAdmin(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, nil
	}
	var ok bool
	if err := r.sql.QueryRow(ctx, sqlinline.QSelectAdminExists, email).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Add inserts an allowlist entry; adding an existing email is a no-op.
func (r *AdminRepositoryPG) Add(ctx context.Context, admin domain.Admin) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertAdmin, strings.TrimSpace(admin.Email), admin.AddedBy)
	return err
}

func (r *AdminRepositoryPG) List(ctx context.Context) ([]domain.Admin, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAdmins)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Admin
	for rows.Next() {
		var a domain.Admin
		if err := rows.Scan(&a.Email, &a.AddedBy, &a.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

var _ domain.AdminRepository = (*AdminRepositoryPG)(nil)
