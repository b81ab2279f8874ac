package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleClient    UserRole = "client"
	RoleDietitian UserRole = "dietitian"
	RoleAdmin     UserRole = "admin"
)

type User struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	FullName          string    `json:"full_name" gorm:"size:255;not null"`
	Email             string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PhoneNumber       string    `json:"phone_number" gorm:"size:20"`
	Role              UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'client';check:role IN ('client','dietitian','admin')"`
	ProfilePictureURL *string   `json:"profile_picture_url" gorm:"size:255"`
	IsActive          bool      `json:"is_active" gorm:"default:true"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Bookings      []Booking      `json:"bookings,omitempty" gorm:"foreignKey:UserID"`
	Subscriptions []Subscription `json:"subscriptions,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleClient
	}
	return nil
}

// IsValidRole checks if the user role is valid
func (u *User) IsValidRole() bool {
	switch u.Role {
	case RoleClient, RoleDietitian, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsDietitian checks if the user is a dietitian
func (u *User) IsDietitian() bool {
	return u.Role == RoleDietitian
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsClient checks if the user is a client
func (u *User) IsClient() bool {
	return u.Role == RoleClient
}
