package services

import (
	"errors"
	"testing"
	"time"
)

func TestParseCalendarDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		year    int
		month   time.Month
		day     int
		wantErr bool
	}{
		{name: "bare date", input: "2025-07-15", year: 2025, month: time.July, day: 15},
		{name: "timestamp with T", input: "2025-07-15T00:00:00+00:00", year: 2025, month: time.July, day: 15},
		{name: "timestamp with space", input: "2025-07-15 08:30:00", year: 2025, month: time.July, day: 15},
		{name: "single digit components", input: "2025-1-3", year: 2025, month: time.January, day: 3},
		{name: "empty", input: "", wantErr: true},
		{name: "two components", input: "2025-07", wantErr: true},
		{name: "non numeric", input: "2025-ab-15", wantErr: true},
		{name: "slash separated", input: "15/07/2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCalendarDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCalendarDate(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidDateFormat) {
					t.Errorf("error = %v, want ErrInvalidDateFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCalendarDate(%q) unexpected error: %v", tt.input, err)
			}
			if got.Year() != tt.year || got.Month() != tt.month || got.Day() != tt.day {
				t.Errorf("got %v, want %04d-%02d-%02d", got, tt.year, tt.month, tt.day)
			}
			if got.Hour() != 12 {
				t.Errorf("hour = %d, want midday anchor 12", got.Hour())
			}
		})
	}
}

// The midday anchor exists so a stored date renders as the same calendar day
// across the UTC offsets a visitor plausibly sits in.
func TestParseCalendarDateStableAcrossOffsets(t *testing.T) {
	got, err := ParseCalendarDate("2025-07-15")
	if err != nil {
		t.Fatal(err)
	}
	for _, offset := range []int{-11, -3, 0, 3, 8} {
		zone := time.FixedZone("test", offset*60*60)
		if d := got.In(zone).Day(); d != 15 {
			t.Errorf("day in UTC%+d = %d, want 15", offset, d)
		}
	}
}

func TestParseLegacyDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "15/07/2025", want: "2025-07-15"},
		{input: " 01/12/2023 ", want: "2023-12-01"},
		{input: "15-07-2025", wantErr: true},
		{input: "15/07", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseLegacyDate(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLegacyDate(%q) expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLegacyDate(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if s := got.Format("2006-01-02"); s != tt.want {
			t.Errorf("ParseLegacyDate(%q) = %s, want %s", tt.input, s, tt.want)
		}
	}
}

func TestFormatPortuguese(t *testing.T) {
	d := time.Date(2025, time.July, 15, 12, 0, 0, 0, ReferenceLocation)
	if got := FormatLong(d); got != "15 de julho de 2025" {
		t.Errorf("FormatLong = %q", got)
	}
	if got := FormatShort(d); got != "15 jul 2025" {
		t.Errorf("FormatShort = %q", got)
	}
}

func TestSameCalendarDay(t *testing.T) {
	morning := time.Date(2025, time.June, 1, 0, 30, 0, 0, ReferenceLocation)
	night := time.Date(2025, time.June, 1, 23, 45, 0, 0, ReferenceLocation)
	nextDay := time.Date(2025, time.June, 2, 0, 15, 0, 0, ReferenceLocation)

	if !sameCalendarDay(morning, night) {
		t.Error("same day instants reported as different days")
	}
	if sameCalendarDay(night, nextDay) {
		t.Error("different days reported as the same day")
	}
}
