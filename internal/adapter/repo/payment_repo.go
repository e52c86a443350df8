package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"taskease/internal/domain"
	"taskease/internal/infra"
	"taskease/internal/sqlinline"
)

// PaymentRepositoryPG implements domain.PaymentRepository.
type PaymentRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewPaymentRepository creates a new PaymentRepositoryPG.
func NewPaymentRepository(sql infra.SQLExecutor) *PaymentRepositoryPG {
	return &PaymentRepositoryPG{sql: sql}
}

func (r *PaymentRepositoryPG) CreateOrder(ctx context.Context, order *domain.PaymentOrder) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertPaymentOrder, order.ID, order.UserID, order.PlanID, order.Amount, order.Currency, string(order.Status))
	if err := row.Scan(&order.CreatedAt); err != nil {
		return err
	}
	order.UpdatedAt = order.CreatedAt
	return nil
}

func (r *PaymentRepositoryPG) GetOrder(ctx context.Context, orderID string) (*domain.PaymentOrder, error) {
	return scanOrder(r.sql.QueryRow(ctx, sqlinline.QSelectPaymentOrder, orderID))
}

func (r *PaymentRepositoryPG) Transition(ctx context.Context, orderID string, from, to domain.OrderStatus, resultCode string) (*domain.PaymentOrder, error) {
	order, err := scanOrder(r.sql.QueryRow(ctx, sqlinline.QTransitionPaymentOrder, orderID, string(from), string(to), resultCode))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrOrderClosed
	}
	return order, err
}

func scanOrder(row pgx.Row) (*domain.PaymentOrder, error) {
	var o domain.PaymentOrder
	var status string
	if err := row.Scan(&o.ID, &o.UserID, &o.PlanID, &o.Amount, &o.Currency, &status, &o.ResultCode, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

var _ domain.PaymentRepository = (*PaymentRepositoryPG)(nil)
