package services

import (
	"time"

	"nutriconnect-server/database"
	"nutriconnect-server/models"
	"nutriconnect-server/utils"
)

// DaySchedule is the partitioned slot view for one dietitian and day.
// A slot never appears in more than one partition: the requester's own
// bookings are carved out of the booked set first.
type DaySchedule struct {
	BookedSlots  []string `json:"bookedSlots"`  // taken by other users
	UserBookings []string `json:"userBookings"` // held by the requesting user
	BlockedSlots []string `json:"blockedSlots"` // manually blocked by the dietitian
}

// PartitionDaySlots splits a dietitian's active bookings and blocked slots
// for one day into the three schedule partitions. userID 0 means anonymous:
// every booking lands in BookedSlots.
func PartitionDaySlots(bookings []models.Booking, blocked []models.BlockedSlot, userID uint) DaySchedule {
	schedule := DaySchedule{
		BookedSlots:  []string{},
		UserBookings: []string{},
		BlockedSlots: []string{},
	}

	seen := make(map[string]bool)
	for _, b := range bookings {
		if !b.IsActive() || seen[b.Time] {
			continue
		}
		seen[b.Time] = true

		if userID != 0 && b.UserID == userID {
			schedule.UserBookings = append(schedule.UserBookings, b.Time)
		} else {
			schedule.BookedSlots = append(schedule.BookedSlots, b.Time)
		}
	}

	for _, s := range blocked {
		schedule.BlockedSlots = append(schedule.BlockedSlots, s.Time)
	}

	return schedule
}

// ActiveTimes collects the distinct times of the active bookings in the
// given slice, preserving order of first appearance.
func ActiveTimes(bookings []models.Booking) []string {
	times := []string{}
	seen := make(map[string]bool)
	for _, b := range bookings {
		if !b.IsActive() || seen[b.Time] {
			continue
		}
		seen[b.Time] = true
		times = append(times, b.Time)
	}
	return times
}

// GetDietitianDaySchedule loads a dietitian's schedule for one day and, for
// an identified requester, the times at which that requester already holds
// an active booking with any dietitian (used to flag cross-dietitian
// conflicts in the booking UI).
func GetDietitianDaySchedule(dietitianID uint, date time.Time, userID uint) (DaySchedule, []string, error) {
	dayStart, dayEnd := utils.DayRange(date)

	var bookings []models.Booking
	if err := database.DB.
		Where("dietitian_id = ? AND date >= ? AND date < ? AND status IN ?",
			dietitianID, dayStart, dayEnd, models.ActiveBookingStatuses).
		Find(&bookings).Error; err != nil {
		return DaySchedule{}, nil, err
	}

	var blocked []models.BlockedSlot
	if err := database.DB.
		Where("dietitian_id = ? AND date = ?", dietitianID, utils.FormatBookingDate(date)).
		Find(&blocked).Error; err != nil {
		return DaySchedule{}, nil, err
	}

	schedule := PartitionDaySlots(bookings, blocked, userID)

	conflictingTimes := []string{}
	if userID != 0 {
		var userBookings []models.Booking
		if err := database.DB.
			Where("user_id = ? AND date >= ? AND date < ? AND status IN ?",
				userID, dayStart, dayEnd, models.ActiveBookingStatuses).
			Find(&userBookings).Error; err != nil {
			return DaySchedule{}, nil, err
		}
		conflictingTimes = ActiveTimes(userBookings)
	}

	return schedule, conflictingTimes, nil
}

// GetUserDaySlots returns the times at which a user holds active bookings
// on the given day, with any dietitian.
func GetUserDaySlots(userID uint, date time.Time) ([]string, error) {
	dayStart, dayEnd := utils.DayRange(date)

	var bookings []models.Booking
	if err := database.DB.
		Where("user_id = ? AND date >= ? AND date < ? AND status IN ?",
			userID, dayStart, dayEnd, models.ActiveBookingStatuses).
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	return ActiveTimes(bookings), nil
}
