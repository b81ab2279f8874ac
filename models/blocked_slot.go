package models

import (
	"time"
)

// BlockedSlot marks a dietitian as manually unavailable for one slot.
// Unique per (dietitian_id, date, time).
type BlockedSlot struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	DietitianID uint   `json:"dietitian_id" gorm:"not null;index;uniqueIndex:idx_blocked_slot"`
	Date        string `json:"date" gorm:"size:10;not null;uniqueIndex:idx_blocked_slot"` // YYYY-MM-DD
	Time        string `json:"time" gorm:"size:5;not null;uniqueIndex:idx_blocked_slot"`  // HH:MM
	Reason      string `json:"reason" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Dietitian DietitianProfile `json:"dietitian,omitempty" gorm:"foreignKey:DietitianID"`
}

// TableName specifies the table name for the BlockedSlot model
func (BlockedSlot) TableName() string {
	return "blocked_slots"
}

// BlockedSlotRequest is the payload for blocking a slot.
type BlockedSlotRequest struct {
	Date   string `json:"date" binding:"required"` // YYYY-MM-DD
	Time   string `json:"time" binding:"required"` // HH:MM
	Reason string `json:"reason"`
}
