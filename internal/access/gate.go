package access

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"taskease/internal/domain"
)

// Gate answers admin capability checks against the allowlist.
type Gate struct {
	admins domain.AdminRepository
	logger zerolog.Logger
}

func NewGate(admins domain.AdminRepository, logger zerolog.Logger) *Gate {
	return &Gate{admins: admins, logger: logger}
}

func (g *Gate) IsAdmin(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, nil
	}
	ok, err := g.admins.IsAdmin(ctx, email)
	if err != nil {
		return false, fmt.Errorf("admin lookup: %w", err)
	}
	return ok, nil
}

// EnsureBootstrap makes sure the owner email is on the allowlist. An empty
// email is a no-op.
func (g *Gate) EnsureBootstrap(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}
	if err := g.Promote(ctx, email, "bootstrap"); err != nil {
		return err
	}
	g.logger.Info().Str("email", email).Msg("bootstrap admin ensured")
	return nil
}

// Promote adds email to the allowlist. Promoting an existing admin is a no-op.
func (g *Gate) Promote(ctx context.Context, email, addedBy string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Name != "" {
		return domain.Invalid("email", "a plain email address is required")
	}
	admin := domain.Admin{
		Email:   normalizeEmail(addr.Address),
		AddedBy: normalizeEmail(addedBy),
		AddedAt: time.Now().UTC(),
	}
	if err := g.admins.Add(ctx, admin); err != nil {
		return fmt.Errorf("add admin: %w", err)
	}
	return nil
}

func (g *Gate) List(ctx context.Context) ([]domain.Admin, error) {
	return g.admins.List(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
