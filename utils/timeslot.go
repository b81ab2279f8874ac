package utils

import (
	"fmt"
	"regexp"
	"time"

	"nutriconnect-server/config"
)

const dateLayout = "2006-01-02"

var (
	timeSlotPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ParseBookingDate parses a YYYY-MM-DD string as UTC midnight. Dates are
// always stored at UTC midnight so day-range queries are timezone-stable.
func ParseBookingDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatBookingDate renders a date back to its YYYY-MM-DD form.
func FormatBookingDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// DayRange returns the [start, end) UTC day window containing t. Bookings
// store date at UTC midnight and time as a separate string, so same-day
// lookups must use a range, not timestamp equality.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := TruncateToUTCDay(t)
	return start, start.Add(24 * time.Hour)
}

// TruncateToUTCDay drops the time-of-day component in UTC.
func TruncateToUTCDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WholeDaysBetween returns the number of whole calendar days from `from`
// to `to`, both truncated to UTC midnight. Negative when `to` is earlier.
func WholeDaysBetween(from, to time.Time) int {
	return int(TruncateToUTCDay(to).Sub(TruncateToUTCDay(from)).Hours() / 24)
}

// SlotStart combines a booking's UTC-midnight date with its HH:MM slot
// string into the slot's start instant.
func SlotStart(date time.Time, slot string) (time.Time, error) {
	m := timeSlotPattern.FindStringSubmatch(slot)
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM", slot)
	}
	hour := int(slot[0]-'0')*10 + int(slot[1]-'0')
	minute := int(slot[3]-'0')*10 + int(slot[4]-'0')
	day := TruncateToUTCDay(date)
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), nil
}

// IsValidSlotTime reports whether s is an HH:MM time that lands on the
// consultation grid (within working hours, aligned to the slot length).
func IsValidSlotTime(s string) bool {
	m := timeSlotPattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}

	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')

	booking := config.AppConfig.Booking
	if hour < booking.WorkingHourStart || hour >= booking.WorkingHourEnd {
		return false
	}
	return minute%booking.SlotMinutes == 0
}

// DaySlots returns every bookable HH:MM slot of a working day, in order.
func DaySlots() []string {
	booking := config.AppConfig.Booking

	var slots []string
	for hour := booking.WorkingHourStart; hour < booking.WorkingHourEnd; hour++ {
		for minute := 0; minute < 60; minute += booking.SlotMinutes {
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return slots
}

// IsAnonymousUserParam reports whether a userId query value should be
// treated as "no user". Frontends sometimes serialize missing ids as the
// literal strings "null" or "undefined".
func IsAnonymousUserParam(s string) bool {
	return s == "" || s == "null" || s == "undefined"
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
