package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nutriconnect-server/database"
	"nutriconnect-server/models"
	"nutriconnect-server/services"
)

// RegisterSubscriptionRoutes registers subscription routes
func RegisterSubscriptionRoutes(router *gin.RouterGroup) {
	subscriptionRoutes := router.Group("/subscriptions")
	{
		subscriptionRoutes.GET("/me", getMySubscription)
	}
}

// getMySubscription returns the caller's resolved plan, its booking
// limits, and the current month's usage.
func getMySubscription(c *gin.Context) {
	userID := c.GetUint("user_id")
	now := time.Now()

	var sub models.Subscription
	err := database.DB.
		Where("user_id = ? AND is_active = ? AND subscription_end_date > ?", userID, true, now).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscription"})
		return
	}

	plan := models.PlanFree
	var subscription interface{}
	if err == nil {
		plan = sub.PlanType
		subscription = sub
	}

	count, err := services.CountMonthlyBookings(userID, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count bookings"})
		return
	}

	limits := models.LimitsForPlan(plan)

	c.JSON(http.StatusOK, gin.H{
		"plan":         plan,
		"subscription": subscription,
		"limits": gin.H{
			"monthlyBookings":    limits.MonthlyBookings,
			"advanceBookingDays": limits.AdvanceBookingDays,
		},
		"currentMonthBookings": count,
		// Free-tier callers are not limit-checked at all
		"exemptFromLimits": plan == models.PlanFree,
	})
}
