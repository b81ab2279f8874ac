package utils

import (
	"os"
	"testing"
	"time"

	"nutriconnect-server/config"
)

func TestMain(m *testing.M) {
	config.Load()
	os.Exit(m.Run())
}

func TestParseBookingDate(t *testing.T) {
	got, err := ParseBookingDate("2025-03-15")
	if err != nil {
		t.Fatalf("ParseBookingDate returned error: %v", err)
	}

	want := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseBookingDate = %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("ParseBookingDate location = %v, want UTC", got.Location())
	}
}

func TestParseBookingDateRejectsBadInput(t *testing.T) {
	for _, input := range []string{"", "15-03-2025", "2025/03/15", "2025-3-15", "2025-03-15T10:00:00Z", "garbage"} {
		if _, err := ParseBookingDate(input); err == nil {
			t.Errorf("ParseBookingDate(%q) succeeded, want error", input)
		}
	}
}

func TestFormatBookingDateRoundTrip(t *testing.T) {
	date, _ := ParseBookingDate("2025-12-01")
	if got := FormatBookingDate(date); got != "2025-12-01" {
		t.Errorf("FormatBookingDate = %q, want %q", got, "2025-12-01")
	}
}

func TestDayRange(t *testing.T) {
	at := time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)
	start, end := DayRange(at)

	if want := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if want := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
}

func TestWholeDaysBetween(t *testing.T) {
	day := func(y int, m time.Month, d, hour int) time.Time {
		return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same day", day(2025, 5, 1, 9), day(2025, 5, 1, 23), 0},
		{"next day", day(2025, 5, 1, 23), day(2025, 5, 2, 1), 1},
		{"a week out", day(2025, 5, 1, 12), day(2025, 5, 8, 0), 7},
		{"past date", day(2025, 5, 8, 0), day(2025, 5, 1, 12), -7},
		{"across month boundary", day(2025, 1, 31, 8), day(2025, 2, 2, 8), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WholeDaysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("WholeDaysBetween = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsValidSlotTime(t *testing.T) {
	tests := []struct {
		time string
		want bool
	}{
		{"09:00", true},
		{"09:30", true},
		{"19:30", true},
		{"12:00", true},
		{"08:30", false}, // before opening
		{"20:00", false}, // after closing
		{"09:15", false}, // off the grid
		{"9:00", false},  // missing leading zero
		{"25:00", false},
		{"09:60", false},
		{"", false},
		{"09-00", false},
	}

	for _, tt := range tests {
		if got := IsValidSlotTime(tt.time); got != tt.want {
			t.Errorf("IsValidSlotTime(%q) = %v, want %v", tt.time, got, tt.want)
		}
	}
}

func TestDaySlots(t *testing.T) {
	slots := DaySlots()

	// 9:00 through 19:30 at 30-minute steps is 22 slots
	if len(slots) != 22 {
		t.Fatalf("DaySlots returned %d slots, want 22", len(slots))
	}
	if slots[0] != "09:00" {
		t.Errorf("first slot = %q, want 09:00", slots[0])
	}
	if slots[len(slots)-1] != "19:30" {
		t.Errorf("last slot = %q, want 19:30", slots[len(slots)-1])
	}

	for _, s := range slots {
		if !IsValidSlotTime(s) {
			t.Errorf("DaySlots produced invalid slot %q", s)
		}
	}
}

func TestSlotStart(t *testing.T) {
	date, _ := ParseBookingDate("2025-07-04")

	got, err := SlotStart(date, "14:30")
	if err != nil {
		t.Fatalf("SlotStart returned error: %v", err)
	}
	if want := time.Date(2025, 7, 4, 14, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("SlotStart = %v, want %v", got, want)
	}

	if _, err := SlotStart(date, "2pm"); err == nil {
		t.Error("SlotStart accepted malformed time")
	}
}

func TestIsAnonymousUserParam(t *testing.T) {
	for _, s := range []string{"", "null", "undefined"} {
		if !IsAnonymousUserParam(s) {
			t.Errorf("IsAnonymousUserParam(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"0", "42", "abc"} {
		if IsAnonymousUserParam(s) {
			t.Errorf("IsAnonymousUserParam(%q) = true, want false", s)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{"user@example.com", "first.last+tag@sub.domain.co"}
	invalid := []string{"", "plainaddress", "@nouser.com", "user@", "user@domain"}

	for _, e := range valid {
		if !ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = false, want true", e)
		}
	}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = true, want false", e)
		}
	}
}
