package queue

import (
	"testing"
	"time"
)

func TestBackoffSchedule(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 2 * time.Second},
		{1, 4 * time.Second},
		{2, 8 * time.Second},
		{3, 16 * time.Second},
		{4, 32 * time.Second},
		{5, 60 * time.Second},
		{6, 60 * time.Second},
		{100, 60 * time.Second},
	}
	for _, tc := range cases {
		if got := Backoff(tc.attempt); got != tc.want {
			t.Errorf("Backoff(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestBackoffNegativeAttempt(t *testing.T) {
	if got := Backoff(-1); got != 2*time.Second {
		t.Fatalf("Backoff(-1) = %v, want 2s", got)
	}
}

func TestBackoffNonDecreasing(t *testing.T) {
	prev := time.Duration(0)
	for n := 0; n < 20; n++ {
		got := Backoff(n)
		if got < prev {
			t.Fatalf("Backoff(%d) = %v decreased from %v", n, got, prev)
		}
		prev = got
	}
}
