package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat is returned when a stored date string does not carry
// exactly three numeric date components.
var ErrInvalidDateFormat = errors.New("invalid date format")

// ReferenceLocation is the fixed display timezone for the whole site.
// Falls back to a fixed UTC-3 zone when tzdata is not available.
var ReferenceLocation = loadReferenceLocation()

func loadReferenceLocation() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("-03", -3*60*60)
	}
	return loc
}

// ParseCalendarDate parses a stored date, either a bare "YYYY-MM-DD" or a
// full timestamp, into a calendar date anchored at midday in the reference
// timezone. Constructing a date straight from "YYYY-MM-DD" yields midnight
// UTC, which renders as the previous day in UTC-negative locales; anchoring
// at 12:00 sidesteps that whole class of bug.
func ParseCalendarDate(raw string) (time.Time, error) {
	datePart := raw
	if i := strings.IndexAny(raw, "T "); i >= 0 {
		datePart = raw[:i]
	}
	parts := strings.Split(datePart, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, raw)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, raw)
		}
		nums[i] = n
	}
	return time.Date(nums[0], time.Month(nums[1]), nums[2], 12, 0, 0, 0, ReferenceLocation), nil
}

// ParseLegacyDate converts the legacy "DD/MM/YYYY" form by reordering it into
// "YYYY-MM-DD" and parsing that. The split must yield exactly three parts.
func ParseLegacyDate(raw string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, raw)
	}
	return ParseCalendarDate(parts[2] + "-" + parts[1] + "-" + parts[0])
}

var mesesLongos = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

var mesesCurtos = [...]string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

// FormatLong renders a calendar date as "15 de julho de 2025".
func FormatLong(t time.Time) string {
	t = t.In(ReferenceLocation)
	return fmt.Sprintf("%02d de %s de %d", t.Day(), mesesLongos[t.Month()-1], t.Year())
}

// FormatShort renders a calendar date as "15 jul 2025".
func FormatShort(t time.Time) string {
	t = t.In(ReferenceLocation)
	return fmt.Sprintf("%02d %s %d", t.Day(), mesesCurtos[t.Month()-1], t.Year())
}

// sameCalendarDay reports whether both instants fall on the same calendar
// day in the reference timezone.
func sameCalendarDay(a, b time.Time) bool {
	a, b = a.In(ReferenceLocation), b.In(ReferenceLocation)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// StartOfDay truncates an instant to midnight in the reference timezone.
// Day-granularity comparisons use this so that an event later today still
// counts as upcoming.
func StartOfDay(t time.Time) time.Time {
	t = t.In(ReferenceLocation)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, ReferenceLocation)
}
