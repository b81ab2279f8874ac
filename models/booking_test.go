package models

import "testing"

func TestIsValidStatus(t *testing.T) {
	for _, s := range []BookingStatus{BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow} {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []BookingStatus{"", "pending", "CONFIRMED", "noshow"} {
		if IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = true, want false", s)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		status   BookingStatus
		terminal bool
	}{
		{BookingStatusConfirmed, false},
		{BookingStatusCancelled, true},
		{BookingStatusCompleted, true},
		{BookingStatusNoShow, true},
	}

	for _, tt := range tests {
		b := Booking{Status: tt.status}
		if got := b.IsTerminal(); got != tt.terminal {
			t.Errorf("IsTerminal with status %q = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		status BookingStatus
		active bool
	}{
		{BookingStatusConfirmed, true},
		{BookingStatusCompleted, true},
		{BookingStatusCancelled, false},
		{BookingStatusNoShow, false},
	}

	for _, tt := range tests {
		b := Booking{Status: tt.status}
		if got := b.IsActive(); got != tt.active {
			t.Errorf("IsActive with status %q = %v, want %v", tt.status, got, tt.active)
		}
	}
}

func TestCanTransitionTo(t *testing.T) {
	confirmed := Booking{Status: BookingStatusConfirmed}

	// Confirmed can reach every terminal state but never itself
	for _, next := range []BookingStatus{BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow} {
		if !confirmed.CanTransitionTo(next) {
			t.Errorf("confirmed -> %q should be allowed", next)
		}
	}
	if confirmed.CanTransitionTo(BookingStatusConfirmed) {
		t.Error("confirmed -> confirmed should be rejected")
	}
	if confirmed.CanTransitionTo("pending") {
		t.Error("confirmed -> unknown status should be rejected")
	}

	// Terminal states never transition again
	for _, terminal := range []BookingStatus{BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow} {
		b := Booking{Status: terminal}
		for _, next := range []BookingStatus{BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow} {
			if b.CanTransitionTo(next) {
				t.Errorf("%q -> %q should be rejected", terminal, next)
			}
		}
	}
}
