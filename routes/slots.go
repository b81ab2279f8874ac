package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nutriconnect-server/services"
	"nutriconnect-server/utils"
)

// getDietitianBookedSlots returns the partitioned slot view for one
// dietitian and day, plus the times at which the requesting user already
// has an appointment with any dietitian that day.
func getDietitianBookedSlots(c *gin.Context) {
	dietitianID, err := strconv.ParseUint(c.Param("dietitianId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dietitian ID"})
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: date"})
		return
	}

	date, err := utils.ParseBookingDate(dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Frontends serialize a missing user as "null"/"undefined"; treat those
	// as anonymous rather than failing the request.
	var userID uint
	if raw := c.Query("userId"); !utils.IsAnonymousUserParam(raw) {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}
		userID = uint(parsed)
	}

	schedule, conflictingTimes, err := services.GetDietitianDaySchedule(uint(dietitianID), date, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booked slots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookedSlots":          schedule.BookedSlots,
		"userBookings":         schedule.UserBookings,
		"userConflictingTimes": conflictingTimes,
		"blockedSlots":         schedule.BlockedSlots,
	})
}

// getUserBookedSlots returns the times at which a user holds active
// bookings on a day, across all dietitians.
func getUserBookedSlots(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: date"})
		return
	}

	date, err := utils.ParseBookingDate(dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slots, err := services.GetUserDaySlots(uint(userID), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booked slots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookedSlots": slots,
	})
}
