package services

import (
	"testing"
	"time"
)

type datedItem struct {
	name string
	date time.Time
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, ReferenceLocation)
}

func TestPartition(t *testing.T) {
	now := time.Date(2025, time.June, 1, 9, 0, 0, 0, ReferenceLocation)
	items := []datedItem{
		{name: "far future", date: day(2025, time.June, 10)},
		{name: "yesterday", date: day(2025, time.May, 31)},
		{name: "today", date: day(2025, time.June, 1)},
		{name: "near future", date: day(2025, time.June, 2)},
		{name: "long past", date: day(2024, time.December, 25)},
	}

	upcoming, past := Partition(items, func(i datedItem) time.Time { return i.date }, now)

	wantUpcoming := []string{"today", "near future", "far future"}
	if len(upcoming) != len(wantUpcoming) {
		t.Fatalf("upcoming = %d items, want %d", len(upcoming), len(wantUpcoming))
	}
	for i, want := range wantUpcoming {
		if upcoming[i].name != want {
			t.Errorf("upcoming[%d] = %q, want %q", i, upcoming[i].name, want)
		}
	}

	wantPast := map[string]bool{"yesterday": true, "long past": true}
	if len(past) != len(wantPast) {
		t.Fatalf("past = %d items, want %d", len(past), len(wantPast))
	}
	for _, it := range past {
		if !wantPast[it.name] {
			t.Errorf("unexpected past item %q", it.name)
		}
	}
}

// An event later today is still upcoming even when the reference instant has
// already passed its anchor hour.
func TestPartitionTodayBoundary(t *testing.T) {
	now := time.Date(2025, time.June, 1, 23, 30, 0, 0, ReferenceLocation)
	items := []datedItem{{name: "today", date: day(2025, time.June, 1)}}

	upcoming, past := Partition(items, func(i datedItem) time.Time { return i.date }, now)
	if len(upcoming) != 1 || len(past) != 0 {
		t.Fatalf("same-day item classified as past: upcoming=%d past=%d", len(upcoming), len(past))
	}
}

func TestPartitionEmpty(t *testing.T) {
	upcoming, past := Partition(nil, func(i datedItem) time.Time { return i.date }, time.Now())
	if len(upcoming) != 0 || len(past) != 0 {
		t.Fatalf("empty input produced output: upcoming=%d past=%d", len(upcoming), len(past))
	}
}

func TestSortByDate(t *testing.T) {
	items := []datedItem{
		{name: "b", date: day(2025, time.March, 2)},
		{name: "c", date: day(2025, time.March, 3)},
		{name: "a", date: day(2025, time.March, 1)},
	}

	SortByDate(items, func(i datedItem) time.Time { return i.date }, true)
	if items[0].name != "a" || items[2].name != "c" {
		t.Errorf("ascending order wrong: %v", items)
	}

	SortByDate(items, func(i datedItem) time.Time { return i.date }, false)
	if items[0].name != "c" || items[2].name != "a" {
		t.Errorf("descending order wrong: %v", items)
	}
}

func TestSortByDateStable(t *testing.T) {
	sameDay := day(2025, time.March, 1)
	items := []datedItem{
		{name: "first", date: sameDay},
		{name: "second", date: sameDay},
		{name: "third", date: sameDay},
	}
	SortByDate(items, func(i datedItem) time.Time { return i.date }, true)
	if items[0].name != "first" || items[1].name != "second" || items[2].name != "third" {
		t.Errorf("same-day items reordered: %v", items)
	}
}
