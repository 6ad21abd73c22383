package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var businessDaysPattern = regexp.MustCompile(`(?i)^(\d+)(?:\s*-\s*(\d+))?\s+business\s+days?$`)

// DeliveryEstimator turns the carrier-quoted delivery windows of the chosen
// shipping options into the date promised to the buyer.
//
// Accepted window formats:
//   - a calendar date: "2026-05-12"
//   - an RFC 3339 timestamp: "2026-05-12T17:00:00Z"
//   - a business-day range: "3 business days", "2-4 business days"
//     (the upper bound is the promise)
//
// Windows that cannot be parsed are ignored. When none remain the default
// business-day estimate applies.
type DeliveryEstimator struct {
	defaultBusinessDays int
}

func NewDeliveryEstimator(defaultBusinessDays int) DeliveryEstimator {
	if defaultBusinessDays <= 0 {
		defaultBusinessDays = 5
	}
	return DeliveryEstimator{defaultBusinessDays: defaultBusinessDays}
}

// Estimate returns the earliest date among the parseable windows, at
// midnight UTC.
func (e DeliveryEstimator) Estimate(now time.Time, windows []string) time.Time {
	var earliest time.Time
	for _, w := range windows {
		date, ok := parseWindow(now, w)
		if !ok {
			continue
		}
		if earliest.IsZero() || date.Before(earliest) {
			earliest = date
		}
	}

	if earliest.IsZero() {
		return AddBusinessDays(now, e.defaultBusinessDays)
	}
	return earliest
}

func parseWindow(now time.Time, window string) (time.Time, bool) {
	window = strings.TrimSpace(window)
	if window == "" {
		return time.Time{}, false
	}

	if d, err := time.Parse(time.DateOnly, window); err == nil {
		return d, true
	}
	if ts, err := time.Parse(time.RFC3339, window); err == nil {
		return truncateToDay(ts), true
	}

	m := businessDaysPattern.FindStringSubmatch(window)
	if m == nil {
		return time.Time{}, false
	}
	days, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}
	if m[2] != "" {
		upper, upperErr := strconv.Atoi(m[2])
		if upperErr != nil || upper < days {
			return time.Time{}, false
		}
		days = upper
	}
	return AddBusinessDays(now, days), true
}

// AddBusinessDays moves forward by days weekdays, skipping Saturdays and
// Sundays, and truncates the result to midnight UTC.
func AddBusinessDays(from time.Time, days int) time.Time {
	d := truncateToDay(from)
	for added := 0; added < days; {
		d = d.AddDate(0, 0, 1)
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			added++
		}
	}
	return d
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
