package payment

import (
	"strings"

	"taskease/internal/domain"
)

// NormalizePayerID shapes a payer identifier into exactly digits digits:
// separators are stripped, short values are left-padded with zeros and
// excess leading zeros are dropped. Anything else is rejected.
func NormalizePayerID(raw string, digits int) (string, error) {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '/':
		default:
			return "", domain.Invalid("payerId", "payer id must contain only digits")
		}
	}
	id := sb.String()
	if id == "" {
		return "", domain.Invalid("payerId", "payer id is required")
	}
	if len(id) > digits {
		trimmed := strings.TrimLeft(id, "0")
		if len(trimmed) > digits {
			return "", domain.Invalid("payerId", "payer id is too long")
		}
		id = trimmed
	}
	if len(id) < digits {
		id = strings.Repeat("0", digits-len(id)) + id
	}
	return id, nil
}
