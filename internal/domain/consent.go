package domain

import "time"

type ConsentKind string

const (
	ConsentMarketing ConsentKind = "marketing"
	ConsentBeta      ConsentKind = "beta"
)

// Consent is an append-only opt-in audit entry.
type Consent struct {
	UserID    string      `json:"userId"`
	Kind      ConsentKind `json:"kind"`
	Granted   bool        `json:"granted"`
	CreatedAt time.Time   `json:"createdAt"`
}
