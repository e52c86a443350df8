package domain

import "time"

// Admin is an allowlist entry; presence grants admin capability.
type Admin struct {
	Email   string    `json:"email"`
	AddedBy string    `json:"addedBy,omitempty"`
	AddedAt time.Time `json:"addedAt"`
}
