package timeago

import (
	"fmt"
	"time"
)

// Format renders the distance from t to now as "just now", "N min(s) ago",
// "N hour(s) ago" or "N day(s) ago". Units floor; future times read "just now".
func Format(now, t time.Time) string {
	secs := int64(now.Sub(t) / time.Second)
	switch {
	case secs < 60:
		return "just now"
	case secs < 3600:
		return plural(secs/60, "min")
	case secs < 86400:
		return plural(secs/3600, "hour")
	default:
		return plural(secs/86400, "day")
	}
}

// FormatMillis is Format for epoch-millisecond timestamps.
func FormatMillis(nowMs, tsMs int64) string {
	return Format(time.UnixMilli(nowMs), time.UnixMilli(tsMs))
}

func plural(n int64, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
