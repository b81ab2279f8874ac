package services

import (
	"reflect"
	"testing"

	"nutriconnect-server/models"
)

func booking(userID uint, slot string, status models.BookingStatus) models.Booking {
	return models.Booking{UserID: userID, Time: slot, Status: status}
}

func TestPartitionDaySlots(t *testing.T) {
	bookings := []models.Booking{
		booking(1, "09:00", models.BookingStatusConfirmed),
		booking(2, "10:00", models.BookingStatusConfirmed),
		booking(1, "11:00", models.BookingStatusCompleted),
		booking(3, "12:00", models.BookingStatusCancelled), // inactive, freed
		booking(3, "13:00", models.BookingStatusNoShow),    // inactive, freed
	}
	blocked := []models.BlockedSlot{
		{Time: "15:00"},
		{Time: "15:30"},
	}

	schedule := PartitionDaySlots(bookings, blocked, 1)

	if want := []string{"10:00"}; !reflect.DeepEqual(schedule.BookedSlots, want) {
		t.Errorf("BookedSlots = %v, want %v", schedule.BookedSlots, want)
	}
	if want := []string{"09:00", "11:00"}; !reflect.DeepEqual(schedule.UserBookings, want) {
		t.Errorf("UserBookings = %v, want %v", schedule.UserBookings, want)
	}
	if want := []string{"15:00", "15:30"}; !reflect.DeepEqual(schedule.BlockedSlots, want) {
		t.Errorf("BlockedSlots = %v, want %v", schedule.BlockedSlots, want)
	}
}

func TestPartitionDaySlotsAnonymous(t *testing.T) {
	bookings := []models.Booking{
		booking(1, "09:00", models.BookingStatusConfirmed),
		booking(2, "10:00", models.BookingStatusConfirmed),
	}

	schedule := PartitionDaySlots(bookings, nil, 0)

	// Anonymous requesters see everything as taken by others
	if want := []string{"09:00", "10:00"}; !reflect.DeepEqual(schedule.BookedSlots, want) {
		t.Errorf("BookedSlots = %v, want %v", schedule.BookedSlots, want)
	}
	if len(schedule.UserBookings) != 0 {
		t.Errorf("UserBookings = %v, want empty", schedule.UserBookings)
	}
}

func TestPartitionDaySlotsNoSlotInTwoPartitions(t *testing.T) {
	// A cancelled booking and a confirmed one can share a slot time; the
	// slot must appear exactly once, in the active booking's partition.
	bookings := []models.Booking{
		booking(2, "09:00", models.BookingStatusCancelled),
		booking(1, "09:00", models.BookingStatusConfirmed),
	}

	schedule := PartitionDaySlots(bookings, nil, 1)

	if len(schedule.BookedSlots) != 0 {
		t.Errorf("BookedSlots = %v, want empty", schedule.BookedSlots)
	}
	if want := []string{"09:00"}; !reflect.DeepEqual(schedule.UserBookings, want) {
		t.Errorf("UserBookings = %v, want %v", schedule.UserBookings, want)
	}
}

func TestPartitionDaySlotsEmptyInputs(t *testing.T) {
	schedule := PartitionDaySlots(nil, nil, 7)

	// Partitions marshal as [] rather than null
	if schedule.BookedSlots == nil || schedule.UserBookings == nil || schedule.BlockedSlots == nil {
		t.Error("empty schedule partitions must be non-nil slices")
	}
}

func TestActiveTimes(t *testing.T) {
	bookings := []models.Booking{
		booking(1, "10:00", models.BookingStatusConfirmed),
		booking(1, "10:00", models.BookingStatusCompleted), // duplicate time
		booking(1, "09:00", models.BookingStatusCompleted),
		booking(1, "11:00", models.BookingStatusCancelled),
	}

	got := ActiveTimes(bookings)
	if want := []string{"10:00", "09:00"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ActiveTimes = %v, want %v", got, want)
	}
}

func TestActiveTimesEmpty(t *testing.T) {
	if got := ActiveTimes(nil); got == nil || len(got) != 0 {
		t.Errorf("ActiveTimes(nil) = %v, want empty non-nil slice", got)
	}
}
