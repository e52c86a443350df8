package domain

import "time"

// CreditRecord is the per-user ledger entry: the credit balance plus the
// subscription window that bypasses per-use deduction.
type CreditRecord struct {
	UserID           string     `json:"userId"`
	Email            string     `json:"email,omitempty"`
	Credits          int        `json:"credits"`
	LastUpdated      time.Time  `json:"lastUpdated"`
	IsSubscribed     bool       `json:"isSubscribed"`
	SubscriptionEnds *time.Time `json:"subscriptionEnds,omitempty"`
	PromoClaimedAt   *time.Time `json:"promoClaimedAt,omitempty"`
}

// SubscriptionActive reports whether now falls inside the subscription window.
func (r CreditRecord) SubscriptionActive(now time.Time) bool {
	return r.IsSubscribed && r.SubscriptionEnds != nil && r.SubscriptionEnds.After(now)
}

// CanSpend reports whether a deduction would currently succeed.
func (r CreditRecord) CanSpend(now time.Time) bool {
	return r.Credits > 0 || r.SubscriptionActive(now)
}

// SubscriptionPeriodEnd returns the end of a subscription window opened by a
// successful payment or an admin toggle at from.
func SubscriptionPeriodEnd(from time.Time) time.Time {
	return from.AddDate(0, 1, 0)
}
