package domain

import (
	"testing"
	"time"
)

func TestCreditRecordCanSpend(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	cases := []struct {
		name   string
		record CreditRecord
		want   bool
	}{
		{name: "has credits", record: CreditRecord{Credits: 1}, want: true},
		{name: "empty", record: CreditRecord{}, want: false},
		{name: "active subscription", record: CreditRecord{IsSubscribed: true, SubscriptionEnds: &future}, want: true},
		{name: "lapsed subscription", record: CreditRecord{IsSubscribed: true, SubscriptionEnds: &past}, want: false},
		{name: "flag without end", record: CreditRecord{IsSubscribed: true}, want: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.record.CanSpend(now); got != tc.want {
				t.Fatalf("CanSpend() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSubscriptionPeriodEnd(t *testing.T) {
	t.Parallel()
	from := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	want := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	if got := SubscriptionPeriodEnd(from); !got.Equal(want) {
		t.Fatalf("SubscriptionPeriodEnd() = %v, want %v", got, want)
	}
}

func TestAuthErrorMessage(t *testing.T) {
	t.Parallel()
	if msg := (&AuthError{Code: AuthTokenExpired}).Message(); msg == "" || msg == authFallbackMessage {
		t.Fatalf("expected specific message, got %q", msg)
	}
	if msg := (&AuthError{Code: "popup_blocked_somewhere"}).Message(); msg != authFallbackMessage {
		t.Fatalf("expected fallback message, got %q", msg)
	}
}
