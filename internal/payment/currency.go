package payment

import (
	"math"

	"taskease/internal/domain"
)

// ConvertAmount applies the static exchange rate and rounds to cents.
func ConvertAmount(reference, rate float64) float64 {
	return math.Round(reference*rate*100) / 100
}

// ValidateAmount requires 0 < amount < max.
func ValidateAmount(amount, max float64) error {
	if math.IsNaN(amount) || amount <= 0 {
		return domain.Invalid("amount", "amount must be positive")
	}
	if max > 0 && amount >= max {
		return domain.Invalid("amount", "amount exceeds the payment limit")
	}
	return nil
}
