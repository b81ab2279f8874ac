package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusNoShow    BookingStatus = "no-show"
)

// ActiveBookingStatuses are the statuses that occupy a slot.
var ActiveBookingStatuses = []BookingStatus{BookingStatusConfirmed, BookingStatusCompleted}

type Booking struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Reference   string `json:"reference" gorm:"size:64;uniqueIndex"`
	UserID      uint   `json:"user_id" gorm:"not null;index"`
	DietitianID uint   `json:"dietitian_id" gorm:"not null;index"`

	// Party details are captured at booking time on purpose: if a profile
	// is later renamed or deactivated the booking keeps its historical values.
	UserName       string `json:"user_name" gorm:"size:255;not null"`
	UserEmail      string `json:"user_email" gorm:"size:255;not null"`
	UserPhone      string `json:"user_phone" gorm:"size:20"`
	DietitianName  string `json:"dietitian_name" gorm:"size:255;not null"`
	DietitianEmail string `json:"dietitian_email" gorm:"size:255"`

	Date time.Time `json:"date" gorm:"not null;index"`  // calendar day at UTC midnight
	Time string    `json:"time" gorm:"size:5;not null"` // HH:MM, 24-hour

	Amount        float64 `json:"amount" gorm:"type:decimal(10,2);not null"`
	PaymentMethod string  `json:"payment_method" gorm:"size:50;not null"`
	PaymentID     string  `json:"payment_id" gorm:"size:255;not null;uniqueIndex"`
	PaymentStatus string  `json:"payment_status" gorm:"size:20;default:'paid'"`

	Status BookingStatus `json:"status" gorm:"type:varchar(20);default:'confirmed';check:status IN ('confirmed','cancelled','completed','no-show')"`

	ReminderSent bool `json:"reminder_sent" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User      User             `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Dietitian DietitianProfile `json:"dietitian,omitempty" gorm:"foreignKey:DietitianID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// IsValidStatus checks whether s is one of the known booking statuses.
func IsValidStatus(s BookingStatus) bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the booking is in a state that may not
// transition further. Only confirmed bookings can still change.
func (b *Booking) IsTerminal() bool {
	return b.Status != BookingStatusConfirmed
}

// IsActive reports whether the booking occupies its slot.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusCompleted
}

// CanTransitionTo validates a status transition. Confirmed is the sole
// initial state; cancelled, completed and no-show are terminal.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	if !IsValidStatus(next) {
		return false
	}
	if b.IsTerminal() {
		return false
	}
	return next != BookingStatusConfirmed
}

// BookingCreateRequest is the payload for creating a booking. Payment is
// asserted to have succeeded upstream, so bookings are born confirmed.
type BookingCreateRequest struct {
	UserID        uint    `json:"user_id" binding:"required"`
	DietitianID   uint    `json:"dietitian_id" binding:"required"`
	UserName      string  `json:"user_name" binding:"required"`
	UserEmail     string  `json:"user_email" binding:"required"`
	UserPhone     string  `json:"user_phone"`
	Date          string  `json:"date" binding:"required"` // YYYY-MM-DD
	Time          string  `json:"time" binding:"required"` // HH:MM
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	PaymentID     string  `json:"payment_id" binding:"required"`
}

// BookingRescheduleRequest is the payload for moving a booking to a new slot.
type BookingRescheduleRequest struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
	Time string `json:"time" binding:"required"` // HH:MM
}

// BookingStatusRequest is the payload for a status transition.
type BookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required"`
}
