package domain

import (
	"context"
	"time"
)

// CreditRepository persists ledger records. Deduct and ClaimPromo must be
// single atomic conditional updates at the storage boundary.
type CreditRepository interface {
	// Initialize inserts a record with startingCredits when none exists and
	// returns the stored record either way.
	Initialize(ctx context.Context, userID, email string, startingCredits int) (*CreditRecord, error)
	Get(ctx context.Context, userID string) (*CreditRecord, error)
	// Deduct decrements credits by one where credits > 0, or leaves them
	// untouched while the subscription window is open at now. It returns
	// ErrInsufficientCredits when neither holds.
	Deduct(ctx context.Context, userID string, now time.Time) (*CreditRecord, error)
	Grant(ctx context.Context, userID string, amount int) (*CreditRecord, error)
	Set(ctx context.Context, userID string, credits int) (*CreditRecord, error)
	SetSubscription(ctx context.Context, userID string, active bool, ends *time.Time) (*CreditRecord, error)
	// ClaimPromo grants amount once per user and returns ErrPromoClaimed on
	// any later call.
	ClaimPromo(ctx context.Context, userID string, amount int, now time.Time) (*CreditRecord, error)
	List(ctx context.Context, limit int) ([]CreditRecord, error)
	Delete(ctx context.Context, userID string) error
}

// TaskMutation rewrites the subtask list of a locked task. The repository
// recomputes Completed from the result.
type TaskMutation func(task *Task) error

// TaskRepository persists tasks with their embedded subtask lists.
type TaskRepository interface {
	ListByUser(ctx context.Context, userID string) ([]Task, error)
	Get(ctx context.Context, taskID string) (*Task, error)
	Create(ctx context.Context, task *Task) error
	// Mutate applies fn to the current task inside a transaction and writes
	// the result back, stamping UpdatedAt with now.
	Mutate(ctx context.Context, taskID string, now time.Time, fn TaskMutation) (*Task, error)
	Delete(ctx context.Context, taskID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// AdminRepository manages the admin allowlist.
type AdminRepository interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
	Add(ctx context.Context, admin Admin) error
	List(ctx context.Context) ([]Admin, error)
}

// PaymentRepository stores checkout orders.
type PaymentRepository interface {
	CreateOrder(ctx context.Context, order *PaymentOrder) error
	GetOrder(ctx context.Context, orderID string) (*PaymentOrder, error)
	// Transition moves an order from one status to another and returns
	// ErrOrderClosed when the order is no longer in from.
	Transition(ctx context.Context, orderID string, from, to OrderStatus, resultCode string) (*PaymentOrder, error)
}

// ConsentRepository appends consent audit entries.
type ConsentRepository interface {
	Record(ctx context.Context, consent Consent) error
}
