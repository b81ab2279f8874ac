package models

import (
	"time"

	"gorm.io/gorm"
)

// DietitianProfile represents a dietitian's professional profile
type DietitianProfile struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	UserID          uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	Specialization  string  `json:"specialization" gorm:"size:255"`
	Bio             string  `json:"bio" gorm:"type:text"`
	Experience      string  `json:"experience" gorm:"type:text"`
	ConsultationFee float64 `json:"consultation_fee" gorm:"type:decimal(10,2);default:0"`

	IsAvailable bool `json:"is_available" gorm:"default:true"`
	IsVerified  bool `json:"is_verified" gorm:"default:false"`

	Rating                 float64 `json:"rating" gorm:"type:decimal(3,2);default:0"`
	TotalReviews           int     `json:"total_reviews" gorm:"default:0"`
	CompletedConsultations int     `json:"completed_consultations" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the DietitianProfile model
func (DietitianProfile) TableName() string {
	return "dietitian_profiles"
}
