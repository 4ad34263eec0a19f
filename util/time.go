package util

import "fmt"

// ReadableTime formats a duration given in milliseconds the way training
// logs print it, e.g. "1h, 0 minutes 0s 0ms".
func ReadableTime(ms int64) string {
	hours := ms / (1000 * 60 * 60)
	ms -= hours * 1000 * 60 * 60
	minutes := ms / (1000 * 60)
	ms -= minutes * 1000 * 60
	seconds := ms / 1000
	ms -= seconds * 1000

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh, %d minutes %ds %dms", hours, minutes, seconds, ms)
	case minutes > 0:
		return fmt.Sprintf("%d minutes %ds %dms", minutes, seconds, ms)
	case seconds > 0:
		return fmt.Sprintf("%ds %dms", seconds, ms)
	}
	return fmt.Sprintf("%dms", ms)
}
