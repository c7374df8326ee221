// Package quota tracks how many tickets a user has booked per calendar day
// and enforces the daily cap.
//
// Day boundaries are computed in Asia/Muscat (fixed UTC+4), the market the
// app serves; purchase timestamps are stored in UTC and compared against the
// converted [00:00, next 00:00) window. The authoritative count is always the
// range sum over bookings. The Redis guard makes acceptance atomic across
// concurrent purchases; the daily_bookings counter table is informational.
package quota

import (
	"fmt"
	"time"
)

// DailyCap is the maximum number of tickets one user may book per day.
const DailyCap = 20

const dateLayout = "2006-01-02"

// Muscat is the fixed reference timezone for day boundaries.
var Muscat = time.FixedZone("GST", 4*60*60)

// Today returns the current calendar date in the reference timezone.
func Today() string {
	return time.Now().In(Muscat).Format(dateLayout)
}

// DateOf returns the calendar day a timestamp falls on in the reference
// timezone.
func DateOf(t time.Time) string {
	return t.In(Muscat).Format(dateLayout)
}

// DayWindow converts a YYYY-MM-DD date to its [start, end) UTC range.
func DayWindow(date string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, Muscat)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	start := day.UTC()
	return start, start.Add(24 * time.Hour), nil
}
