package ui

import (
	"testing"
	"time"
)

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		name string
		in   int64 // seconds
		want string
	}{
		{"negative", -5, "now"},
		{"subsecond", 0, "now"},
		{"seconds", 12, "12s"},
		{"minutes", 61, "1m"},
		{"hours", 2*60*60 + 10, "2h"},
		{"days", 3 * 24 * 60 * 60, "3d"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := humanizeDuration(timeSeconds(tc.in))
			if got != tc.want {
				t.Fatalf("humanizeDuration(%d) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRelativeAge(t *testing.T) {
	now := time.Date(2025, 12, 13, 10, 0, 0, 0, time.UTC)
	if got := RelativeAge(now.Add(-5*time.Minute), now); got != "5m ago" {
		t.Fatalf("RelativeAge = %q, want 5m ago", got)
	}
	if got := RelativeAge(now.Add(time.Minute), now); got != "just now" {
		t.Fatalf("RelativeAge future = %q, want just now", got)
	}
}

func timeSeconds(sec int64) time.Duration {
	return time.Duration(sec) * time.Second
}
