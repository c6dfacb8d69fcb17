package ui

import (
	"fmt"
	"time"
)

// ClockInterval is how often relative ages are re-rendered.
const ClockInterval = 30 * time.Second

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// RelativeAge renders "5m ago", or "just now" for ages under a second.
// Clock skew into the future counts as now.
func RelativeAge(t, now time.Time) string {
	age := humanizeDuration(now.Sub(t))
	if age == "now" {
		return "just now"
	}
	return age + " ago"
}
