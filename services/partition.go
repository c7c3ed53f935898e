package services

import (
	"sort"
	"time"
)

// Partition splits dated records into upcoming and past relative to now,
// at day granularity. A record dated exactly today is upcoming, never past
// (>=, not >). Upcoming comes back ascending (soonest first); past keeps
// input order so the caller picks its own direction with SortByDate.
func Partition[T any](items []T, dateOf func(T) time.Time, now time.Time) (upcoming, past []T) {
	today := StartOfDay(now)
	for _, it := range items {
		d := dateOf(it)
		if sameCalendarDay(d, now) || StartOfDay(d).After(today) {
			upcoming = append(upcoming, it)
		} else {
			past = append(past, it)
		}
	}
	SortByDate(upcoming, dateOf, true)
	return upcoming, past
}

// SortByDate orders records by date, ascending or descending. Stable, so
// same-day records keep their input order.
func SortByDate[T any](items []T, dateOf func(T) time.Time, ascending bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if ascending {
			return dateOf(items[i]).Before(dateOf(items[j]))
		}
		return dateOf(items[i]).After(dateOf(items[j]))
	})
}
