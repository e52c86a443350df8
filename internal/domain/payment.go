package domain

import "time"

// OrderStatus tracks a payment order through settlement.
type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderSettled OrderStatus = "settled"
	OrderFailed  OrderStatus = "failed"
)

// PlanKind selects the ledger effect of a settled order.
type PlanKind string

const (
	PlanCredits      PlanKind = "credits"
	PlanSubscription PlanKind = "subscription"
)

// PaymentOrder is one checkout attempt awaiting the gateway's callback.
type PaymentOrder struct {
	ID         string      `json:"orderId"`
	UserID     string      `json:"userId"`
	PlanID     string      `json:"plan"`
	Amount     float64     `json:"amount"`
	Currency   string      `json:"currency"`
	Status     OrderStatus `json:"status"`
	ResultCode string      `json:"resultCode,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}
