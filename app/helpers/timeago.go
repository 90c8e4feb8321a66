package helpers

import (
	"fmt"
	"time"
)

// JustNow is returned by TimeAgo when less than a second has elapsed.
const JustNow = "just now"

var intervals = []struct {
	unit    string
	seconds int64
}{
	{"year", 31536000},
	{"month", 2592000},
	{"day", 86400},
	{"hour", 3600},
	{"minute", 60},
	{"second", 1},
}

// TimeAgo formats the time elapsed between t and now using the largest
// whole unit, e.g. "3 days ago" or "1 minute ago".
func TimeAgo(t, now time.Time) string {
	elapsed := int64(now.Sub(t) / time.Second)
	for _, iv := range intervals {
		n := elapsed / iv.seconds
		if n >= 1 {
			if n == 1 {
				return fmt.Sprintf("%d %s ago", n, iv.unit)
			}
			return fmt.Sprintf("%d %ss ago", n, iv.unit)
		}
	}
	return JustNow
}
