package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nutriconnect-server/database"
	"nutriconnect-server/models"
	"nutriconnect-server/utils"
)

var (
	// ErrSlotTaken means the target dietitian already has an active booking
	// at the requested slot.
	ErrSlotTaken = errors.New("slot already booked with this dietitian")

	// ErrSlotBlocked means the dietitian has manually blocked the slot.
	ErrSlotBlocked = errors.New("slot is blocked")

	// ErrPaymentIDUsed means the payment id already funded a booking.
	ErrPaymentIDUsed = errors.New("payment ID already used")
)

// UserConflictError reports that the user already holds an active booking
// at the same date and time, possibly with a different dietitian.
type UserConflictError struct {
	DietitianName string
	Time          string
}

func (e *UserConflictError) Error() string {
	return fmt.Sprintf("you already have an appointment with %s at %s", e.DietitianName, e.Time)
}

// ActiveBookingAt returns the first booking in the slice that is active at
// the given time, skipping excludeID (0 = exclude nothing). The slice is
// expected to hold one day's bookings; date filtering happens in the query.
func ActiveBookingAt(bookings []models.Booking, slotTime string, excludeID uint) *models.Booking {
	for i := range bookings {
		b := &bookings[i]
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if b.Time == slotTime && b.IsActive() {
			return b
		}
	}
	return nil
}

// checkSlotConflicts runs the double-booking checks inside tx, locking the
// candidate rows so two racing requests serialize on the same slot. The
// user check runs first so the caller gets the more specific error.
func checkSlotConflicts(tx *gorm.DB, userID, dietitianID uint, date time.Time, slotTime string, excludeID uint) error {
	dayStart, dayEnd := utils.DayRange(date)

	var userBookings []models.Booking
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND date >= ? AND date < ? AND status IN ?",
			userID, dayStart, dayEnd, models.ActiveBookingStatuses).
		Find(&userBookings).Error; err != nil {
		return err
	}
	if conflict := ActiveBookingAt(userBookings, slotTime, excludeID); conflict != nil {
		return &UserConflictError{DietitianName: conflict.DietitianName, Time: conflict.Time}
	}

	var dietitianBookings []models.Booking
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("dietitian_id = ? AND date >= ? AND date < ? AND status IN ?",
			dietitianID, dayStart, dayEnd, models.ActiveBookingStatuses).
		Find(&dietitianBookings).Error; err != nil {
		return err
	}
	if conflict := ActiveBookingAt(dietitianBookings, slotTime, excludeID); conflict != nil {
		return ErrSlotTaken
	}

	return nil
}

// BlockedAt reports whether the blocked set contains the given slot time.
// The slice is expected to hold one dietitian's blocked slots for one day.
func BlockedAt(blocked []models.BlockedSlot, slotTime string) bool {
	for _, s := range blocked {
		if s.Time == slotTime {
			return true
		}
	}
	return false
}

// slotBlocked checks the dietitian's manual unavailability for a slot.
func slotBlocked(tx *gorm.DB, dietitianID uint, dateStr, slotTime string) (bool, error) {
	var blocked []models.BlockedSlot
	err := tx.
		Where("dietitian_id = ? AND date = ?", dietitianID, dateStr).
		Find(&blocked).Error
	if err != nil {
		return false, err
	}
	return BlockedAt(blocked, slotTime), nil
}

// IsSlotBlocked reports whether the dietitian has blocked the given slot.
func IsSlotBlocked(dietitianID uint, dateStr, slotTime string) (bool, error) {
	return slotBlocked(database.DB, dietitianID, dateStr, slotTime)
}

// CreateBooking validates the slot inside a transaction and inserts the
// booking. The partial unique indexes on (dietitian_id, date, time) and
// (user_id, date, time) back the in-transaction check, and the unique
// payment_id index makes retries of the same payment idempotent.
func CreateBooking(booking *models.Booking) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		blocked, err := slotBlocked(tx, booking.DietitianID, utils.FormatBookingDate(booking.Date), booking.Time)
		if err != nil {
			return err
		}
		if blocked {
			return ErrSlotBlocked
		}

		if err := checkSlotConflicts(tx, booking.UserID, booking.DietitianID, booking.Date, booking.Time, 0); err != nil {
			return err
		}

		return tx.Create(booking).Error
	})

	return translateUniqueViolation(err)
}

// RescheduleBooking moves a booking to a new slot after re-running the
// conflict checks, excluding the booking itself from them. Status is not
// reset by a reschedule.
func RescheduleBooking(booking *models.Booking, newDate time.Time, newTime string) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		blocked, err := slotBlocked(tx, booking.DietitianID, utils.FormatBookingDate(newDate), newTime)
		if err != nil {
			return err
		}
		if blocked {
			return ErrSlotBlocked
		}

		if err := checkSlotConflicts(tx, booking.UserID, booking.DietitianID, newDate, newTime, booking.ID); err != nil {
			return err
		}

		return tx.Model(booking).Updates(map[string]interface{}{
			"date":       newDate,
			"time":       newTime,
			"updated_at": time.Now(),
		}).Error
	})

	return translateUniqueViolation(err)
}

// translateUniqueViolation maps Postgres unique-violation errors from the
// booking indexes to their domain errors. A 23505 can still surface when a
// concurrent insert lands between our lock and write on another node.
func translateUniqueViolation(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "idx_bookings_payment_id":
			return ErrPaymentIDUsed
		case "idx_bookings_dietitian_slot_active":
			return ErrSlotTaken
		case "idx_bookings_user_slot_active":
			return ErrSlotTaken
		}
	}

	return err
}

// PaymentIDExists reports whether a booking already uses the payment id.
// The unique index is the real guarantee; this pre-check just produces a
// clean error without burning a transaction.
func PaymentIDExists(paymentID string) (bool, error) {
	var count int64
	err := database.DB.Model(&models.Booking{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error
	return count > 0, err
}
