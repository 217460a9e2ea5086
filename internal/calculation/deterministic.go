package calculation

import (
	"time"

	"github.com/rpgo/finplan/pkg/dateutil"
)

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// DefaultStartDate is the first day of the month after today, used when a
// run does not name its own start date.
func DefaultStartDate() time.Time {
	now := dateutil.Normalize(nowFunc())
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return dateutil.AddMonths(first, 1)
}

// CurrentYear is the calendar year of the engine clock.
func CurrentYear() int {
	return nowFunc().Year()
}
