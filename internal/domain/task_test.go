package domain

import (
	"math"
	"testing"
)

func TestClampEstimatedTime(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   int
		want int
	}{
		{in: -5, want: 1},
		{in: 0, want: 1},
		{in: 1, want: 1},
		{in: 45, want: 45},
		{in: 60, want: 60},
		{in: 70, want: 60},
		{in: 1000, want: 60},
	}
	for _, tc := range cases {
		if got := ClampEstimatedTime(tc.in); got != tc.want {
			t.Fatalf("ClampEstimatedTime(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestClampEstimatedFloat(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   float64
		want int
	}{
		{in: math.NaN(), want: 1},
		{in: math.Inf(1), want: 60},
		{in: math.Inf(-1), want: 1},
		{in: 0.4, want: 1},
		{in: 12.5, want: 13},
		{in: 59.6, want: 60},
		{in: 1e9, want: 60},
	}
	for _, tc := range cases {
		if got := ClampEstimatedFloat(tc.in); got != tc.want {
			t.Fatalf("ClampEstimatedFloat(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestAllCompleted(t *testing.T) {
	t.Parallel()
	if AllCompleted(nil) {
		t.Fatal("empty subtask list must never be complete")
	}
	subs := []SubTask{{ID: "a", Completed: true}, {ID: "b", Completed: false}}
	if AllCompleted(subs) {
		t.Fatal("expected incomplete task")
	}
	subs[1].Completed = true
	if !AllCompleted(subs) {
		t.Fatal("expected complete task")
	}
}

func TestSubTaskDraftNormalize(t *testing.T) {
	t.Parallel()
	got := SubTaskDraft{Title: "  write outline \n", EstimatedTime: 90}.Normalize()
	if got.Title != "write outline" || got.EstimatedTime != 60 {
		t.Fatalf("Normalize() = %+v", got)
	}
}
