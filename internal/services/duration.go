package services

import (
	"fmt"
	"time"
)

// FormatMinutes renders a duration as a whole-minute human label. Values are
// rounded to the nearest minute; a non-zero gap that rounds to zero renders
// as "<1 min" so it stays distinguishable from a true zero gap. Negative
// input clamps to zero.
func FormatMinutes(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	mins := int(d.Round(time.Minute) / time.Minute)
	if mins == 0 {
		if d > 0 {
			return "<1 min"
		}
		return "0 min"
	}
	if mins >= 60 {
		return fmt.Sprintf("%dh %02dmin", mins/60, mins%60)
	}
	return fmt.Sprintf("%d min", mins)
}
