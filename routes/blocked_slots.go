package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nutriconnect-server/database"
	"nutriconnect-server/models"
	"nutriconnect-server/utils"
)

// RegisterBlockedSlotRoutes registers dietitian availability management
// routes. Callers must be dietitians; the routes operate on the caller's
// own profile.
func RegisterBlockedSlotRoutes(router *gin.RouterGroup) {
	slotRoutes := router.Group("/blocked-slots")
	{
		slotRoutes.POST("", blockSlot)
		slotRoutes.GET("", getBlockedSlots)
		slotRoutes.DELETE("/:slotId", unblockSlot)
	}
}

// dietitianProfileForUser resolves the caller's dietitian profile.
func dietitianProfileForUser(c *gin.Context) (*models.DietitianProfile, bool) {
	userID := c.GetUint("user_id")

	var profile models.DietitianProfile
	if err := database.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Dietitian profile required"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dietitian profile"})
		}
		return nil, false
	}
	return &profile, true
}

// blockSlot marks one slot as manually unavailable
func blockSlot(c *gin.Context) {
	profile, ok := dietitianProfileForUser(c)
	if !ok {
		return
	}

	var req models.BlockedSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date and time are required"})
		return
	}

	if _, err := utils.ParseBookingDate(req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.IsValidSlotTime(req.Time) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time slot, expected HH:MM within working hours"})
		return
	}

	// The composite unique index makes repeated blocks of the same slot
	// a conflict rather than a duplicate row.
	var existing models.BlockedSlot
	err := database.DB.
		Where("dietitian_id = ? AND date = ? AND time = ?", profile.ID, req.Date, req.Time).
		First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Slot is already blocked"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check blocked slots"})
		return
	}

	slot := models.BlockedSlot{
		DietitianID: profile.ID,
		Date:        req.Date,
		Time:        req.Time,
		Reason:      req.Reason,
	}

	if err := database.DB.Create(&slot).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to block slot"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Slot blocked successfully",
		"data":    slot,
	})
}

// getBlockedSlots lists the caller's blocked slots, optionally for one date
func getBlockedSlots(c *gin.Context) {
	profile, ok := dietitianProfileForUser(c)
	if !ok {
		return
	}

	query := database.DB.Where("dietitian_id = ?", profile.ID)
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}

	var slots []models.BlockedSlot
	if err := query.Order("date ASC, time ASC").Find(&slots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blocked slots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  slots,
		"count": len(slots),
	})
}

// unblockSlot removes a blocked slot owned by the caller
func unblockSlot(c *gin.Context) {
	profile, ok := dietitianProfileForUser(c)
	if !ok {
		return
	}

	slotID, err := strconv.ParseUint(c.Param("slotId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}

	var slot models.BlockedSlot
	if err := database.DB.
		Where("id = ? AND dietitian_id = ?", slotID, profile.ID).
		First(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Blocked slot not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blocked slot"})
		}
		return
	}

	if err := database.DB.Delete(&slot).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unblock slot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Slot unblocked successfully"})
}
