package matching

import (
	"time"

	"github.com/amaumene/trendarr/internal/models"
)

// DefaultRecencyDays is the default eligibility window
const DefaultRecencyDays = 365

// IsEligible reports whether the item was released within windowDays of now.
// Dates are compared as calendar days; the boundary is inclusive and
// future releases are never eligible. Items without a release date are not eligible.
func IsEligible(item models.TrendingItem, now time.Time, windowDays int) bool {
	if item.ReleaseDate.IsZero() {
		return false
	}

	release := calendarDay(item.ReleaseDate)
	today := calendarDay(now)
	if release.After(today) {
		return false
	}

	age := int(today.Sub(release).Hours() / 24)
	return age <= windowDays
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
