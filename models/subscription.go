package models

import (
	"time"
)

type PlanType string

const (
	PlanFree     PlanType = "free"
	PlanBasic    PlanType = "basic"
	PlanPremium  PlanType = "premium"
	PlanUltimate PlanType = "ultimate"
)

// Subscription is a user's payment/subscription record. The booking
// subsystem only reads the most recent active one to resolve plan limits.
type Subscription struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	UserID              uint      `json:"user_id" gorm:"not null;index"`
	PlanType            PlanType  `json:"plan_type" gorm:"type:varchar(20);not null;default:'free';check:plan_type IN ('free','basic','premium','ultimate')"`
	IsActive            bool      `json:"is_active" gorm:"default:true"`
	SubscriptionEndDate time.Time `json:"subscription_end_date"`
	PaymentID           string    `json:"payment_id" gorm:"size:255"`
	Amount              float64   `json:"amount" gorm:"type:decimal(10,2);default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the Subscription model
func (Subscription) TableName() string {
	return "subscriptions"
}

// PlanLimits holds the booking limits of a plan tier. -1 means unlimited.
type PlanLimits struct {
	PlanType           PlanType `json:"plan_type"`
	MonthlyBookings    int      `json:"monthly_bookings"`
	AdvanceBookingDays int      `json:"advance_booking_days"`
}

// Unlimited reports whether a limit value denotes "no limit".
func Unlimited(limit int) bool {
	return limit < 0
}

var planLimits = map[PlanType]PlanLimits{
	PlanFree:     {PlanType: PlanFree, MonthlyBookings: -1, AdvanceBookingDays: -1},
	PlanBasic:    {PlanType: PlanBasic, MonthlyBookings: 5, AdvanceBookingDays: 7},
	PlanPremium:  {PlanType: PlanPremium, MonthlyBookings: 15, AdvanceBookingDays: 30},
	PlanUltimate: {PlanType: PlanUltimate, MonthlyBookings: -1, AdvanceBookingDays: -1},
}

// LimitsForPlan returns the booking limits for a plan tier. Unknown tiers
// fall back to the free plan.
func LimitsForPlan(plan PlanType) PlanLimits {
	if limits, ok := planLimits[plan]; ok {
		return limits
	}
	return planLimits[PlanFree]
}
