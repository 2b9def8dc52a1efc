package catalog

import (
	"fmt"
	"time"
)

// DefaultLookbackDays is the window used when a caller supplies no usable
// lookback value.
const DefaultLookbackDays = 7

const hoursPerDay = 24

// NormalizeDays maps negative lookback values to the default window.
func NormalizeDays(days int) int {
	if days < 0 {
		return DefaultLookbackDays
	}

	return days
}

// IsNew reports whether a release falls within the lookback window relative
// to now. The boundary is inclusive: a beer released exactly days*24h ago is
// still new. Future release timestamps count as age zero.
func IsNew(releasedAt, now time.Time, days int) bool {
	age := now.Sub(releasedAt)
	if age < 0 {
		age = 0
	}

	return age <= time.Duration(NormalizeDays(days))*hoursPerDay*time.Hour
}

// RelativeAge renders the age of a release as a human label. The breakpoints
// are shared by every surface that shows relative time, so the magazine and
// the recommendation feed never disagree about the same beer.
func RelativeAge(releasedAt, now time.Time) string {
	age := now.Sub(releasedAt)
	if age < 0 {
		age = 0
	}

	switch {
	case age < time.Hour:
		return "Just now"
	case age < hoursPerDay*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	case int(age.Hours())/hoursPerDay == 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", int(age.Hours())/hoursPerDay)
	}
}
