package expiry

import (
	"testing"
	"time"
)

func TestIsExpired(t *testing.T) {
	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"future deadline", now.Add(time.Minute), false},
		{"past deadline", now.Add(-time.Minute), true},
		{"exactly now counts as expired", now, true},
		{"zero time counts as expired", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExpired(tt.expiresAt, now); got != tt.want {
				t.Fatalf("IsExpired(%v, %v) = %v, want %v", tt.expiresAt, now, got, tt.want)
			}
		})
	}
}
