package render

import (
	"fmt"
	"time"
)

// RelativeTime formats the age of t as "3 hours ago", in the coarse units the
// Hacker News front page uses.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	if d < time.Minute {
		return "just now"
	}
	minutes := int(d / time.Minute)
	hours := minutes / 60
	days := hours / 24
	switch {
	case minutes < 60:
		return plural(minutes, "minute")
	case hours < 24:
		return plural(hours, "hour")
	case days < 7:
		return plural(days, "day")
	default:
		return plural(days/7, "week")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
