package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"nutriconnect-server/database"
	"nutriconnect-server/models"
	"nutriconnect-server/utils"
)

// RegisterAdminRoutes registers read-only admin views. The group must be
// protected with AuthMiddleware + RequireRole(RoleAdmin).
func RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/bookings", getAllBookings)
	router.GET("/dashboard/stats", getDashboardStats)
}

// getAllBookings lists bookings across all users, paginated
func getAllBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Booking{})

	if status := c.Query("status"); status != "" {
		if !models.IsValidStatus(models.BookingStatus(status)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("status = ?", status)
	}

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := utils.ParseBookingDate(dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		dayStart, dayEnd := utils.DayRange(date)
		query = query.Where("date >= ? AND date < ?", dayStart, dayEnd)
	}

	var total int64
	query.Count(&total)

	var bookings []models.Booking
	if err := query.
		Order("date DESC, time DESC").
		Offset(offset).
		Limit(limit).
		Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": bookings,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// getDashboardStats returns booking counts for the admin dashboard
func getDashboardStats(c *gin.Context) {
	var totalBookings, confirmedBookings, completedBookings, cancelledBookings, noShowBookings int64

	database.DB.Model(&models.Booking{}).Count(&totalBookings)
	database.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusConfirmed).Count(&confirmedBookings)
	database.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCompleted).Count(&completedBookings)
	database.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusCancelled).Count(&cancelledBookings)
	database.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusNoShow).Count(&noShowBookings)

	monthStart := time.Date(time.Now().UTC().Year(), time.Now().UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	var bookingsThisMonth int64
	database.DB.Model(&models.Booking{}).Where("created_at >= ?", monthStart).Count(&bookingsThisMonth)

	var activeSubscriptions int64
	database.DB.Model(&models.Subscription{}).
		Where("is_active = ? AND subscription_end_date > ?", true, time.Now()).
		Count(&activeSubscriptions)

	var dietitians int64
	database.DB.Model(&models.DietitianProfile{}).Count(&dietitians)

	c.JSON(http.StatusOK, gin.H{
		"bookings": gin.H{
			"total":      totalBookings,
			"confirmed":  confirmedBookings,
			"completed":  completedBookings,
			"cancelled":  cancelledBookings,
			"no_show":    noShowBookings,
			"this_month": bookingsThisMonth,
		},
		"active_subscriptions": activeSubscriptions,
		"dietitians":           dietitians,
	})
}
