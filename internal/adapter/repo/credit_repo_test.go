package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"taskease/internal/domain"
	"taskease/internal/sqlinline"
)

func creditRow(userID string, credits int, updated time.Time) valuesRow {
	return valuesRow{vals: []any{userID, "ada@example.com", credits, updated, false, (*time.Time)(nil), (*time.Time)(nil)}}
}

func TestCreditRepositoryDeduct(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	sql := newStubSQL()
	sql.rows[sqlinline.QDeductCredit] = creditRow("user-1", 2, now)
	repo := NewCreditRepository(sql)

	rec, err := repo.Deduct(context.Background(), "user-1", now)
	if err != nil {
		t.Fatalf("Deduct returned error: %v", err)
	}
	if rec.Credits != 2 || rec.UserID != "user-1" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	c, ok := sql.last(sqlinline.QDeductCredit)
	if !ok {
		t.Fatal("expected deduct query")
	}
	if len(c.args) != 2 || c.args[0] != "user-1" || c.args[1] != now {
		t.Fatalf("unexpected args: %#v", c.args)
	}
}

func TestCreditRepositoryDeductNoRowIsInsufficient(t *testing.T) {
	repo := NewCreditRepository(newStubSQL())
	_, err := repo.Deduct(context.Background(), "user-1", time.Now())
	if !errors.Is(err, domain.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
}

func TestCreditRepositoryClaimPromoTwice(t *testing.T) {
	repo := NewCreditRepository(newStubSQL())
	_, err := repo.ClaimPromo(context.Background(), "user-1", 3, time.Now())
	if !errors.Is(err, domain.ErrPromoClaimed) {
		t.Fatalf("expected ErrPromoClaimed, got %v", err)
	}
}

func TestCreditRepositoryGetMissing(t *testing.T) {
	repo := NewCreditRepository(newStubSQL())
	if _, err := repo.Get(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreditRepositoryInitializePassesStartingBalance(t *testing.T) {
	now := time.Now()
	sql := newStubSQL()
	sql.rows[sqlinline.QInitCredits] = creditRow("user-1", 5, now)
	repo := NewCreditRepository(sql)

	if _, err := repo.Initialize(context.Background(), "user-1", "Ada@Example.com", 5); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	c, _ := sql.last(sqlinline.QInitCredits)
	if len(c.args) != 3 || c.args[2] != 5 {
		t.Fatalf("unexpected args: %#v", c.args)
	}
}

func TestCreditRepositoryInitializeFallsBackToExistingRecord(t *testing.T) {
	now := time.Now()
	sql := newStubSQL()
	sql.rows[sqlinline.QSelectCredits] = creditRow("user-1", 7, now)
	repo := NewCreditRepository(sql)

	rec, err := repo.Initialize(context.Background(), "user-1", "ada@example.com", 5)
	if err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	if rec.Credits != 7 {
		t.Fatalf("expected existing balance 7, got %d", rec.Credits)
	}
	if _, ok := sql.last(sqlinline.QSelectCredits); !ok {
		t.Fatal("expected fallback select after empty upsert")
	}
}

func TestCreditRepositoryDeleteMissing(t *testing.T) {
	sql := newStubSQL()
	sql.execTag = pgconn.NewCommandTag("DELETE 0")
	repo := NewCreditRepository(sql)
	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
