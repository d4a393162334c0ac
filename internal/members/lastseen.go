package members

import (
	"fmt"
	"strings"
	"time"
)

// OnlineLabel is shown instead of a duration for online members.
const OnlineLabel = "ONLINE"

// LastSeen returns how long ago lastOnline was, relative to now.
func LastSeen(lastOnline, now time.Time) time.Duration {
	return now.Sub(lastOnline)
}

// HumanReadableLastSeen renders the time since lastOnline as "1d 2h 3m 4s",
// omitting zero components, or OnlineLabel when online is true.
// A gap under one second (or a lastOnline in the future) renders as "0s".
func HumanReadableLastSeen(lastOnline time.Time, online bool, now time.Time) string {
	if online {
		return OnlineLabel
	}

	d := LastSeen(lastOnline, now)
	if d < time.Second {
		return "0s"
	}

	total := int64(d / time.Second)
	days := total / 86400
	hours := total % 86400 / 3600
	minutes := total % 3600 / 60
	seconds := total % 60

	var parts []string
	if days != 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours != 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes != 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds != 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, " ")
}
