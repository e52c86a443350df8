package memory

import (
	"context"
	"sync"
	"time"

	"taskease/internal/domain"
)

// PaymentStore implements domain.PaymentRepository.
type PaymentStore struct {
	mu     sync.Mutex
	orders map[string]domain.PaymentOrder
}

func NewPaymentStore() *PaymentStore {
	return &PaymentStore{orders: map[string]domain.PaymentOrder{}}
}

func (s *PaymentStore) CreateOrder(_ context.Context, order *domain.PaymentOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.ID]; ok {
		return domain.Invalid("orderId", "order already exists")
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	s.orders[order.ID] = *order
	return nil
}

func (s *PaymentStore) GetOrder(_ context.Context, orderID string) (*domain.PaymentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &order, nil
}

func (s *PaymentStore) Transition(_ context.Context, orderID string, from, to domain.OrderStatus, resultCode string) (*domain.PaymentOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok || order.Status != from {
		return nil, domain.ErrOrderClosed
	}
	order.Status = to
	order.ResultCode = resultCode
	order.UpdatedAt = time.Now().UTC()
	s.orders[orderID] = order
	return &order, nil
}

var _ domain.PaymentRepository = (*PaymentStore)(nil)
