package routes

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nutriconnect-server/database"
	"nutriconnect-server/models"
	ws "nutriconnect-server/websocket"
)

// bookingHub is the shared live-feed hub, set from main at startup.
var bookingHub *ws.Hub

// InitBookingHub wires the WebSocket hub into the routes package.
func InitBookingHub(hub *ws.Hub) {
	bookingHub = hub
}

// RegisterNotificationRoutes registers notification routes
func RegisterNotificationRoutes(router *gin.RouterGroup) {
	notificationRoutes := router.Group("/notifications")
	{
		notificationRoutes.GET("", getUserNotifications)
		notificationRoutes.GET("/unread-count", getUnreadCount)
		notificationRoutes.POST("/mark-read/:id", markNotificationAsRead)
		notificationRoutes.POST("/mark-all-read", markAllNotificationsAsRead)
	}
}

// notifyBookingEvent records a notification for both booking parties and
// pushes the event over the live feed. Failures are logged and never
// propagate: notification delivery must not fail or roll back a booking.
func notifyBookingEvent(booking *models.Booking, eventType, title, body string) {
	payload, err := json.Marshal(gin.H{
		"booking_id": booking.ID,
		"reference":  booking.Reference,
		"date":       booking.Date,
		"time":       booking.Time,
		"status":     booking.Status,
	})
	if err != nil {
		log.Printf("⚠️ Failed to encode notification payload for booking %d: %v", booking.ID, err)
		return
	}

	recipients := []uint{booking.UserID}

	// The booking stores the dietitian profile id; notifications go to the
	// underlying user account.
	var profile models.DietitianProfile
	if err := database.DB.First(&profile, booking.DietitianID).Error; err != nil {
		log.Printf("⚠️ Could not resolve dietitian %d for notification: %v", booking.DietitianID, err)
	} else {
		recipients = append(recipients, profile.UserID)
	}

	for _, userID := range recipients {
		notification := models.Notification{
			UserID: userID,
			Title:  title,
			Body:   body,
			Type:   eventType,
			Data:   string(payload),
		}
		if err := database.DB.Create(&notification).Error; err != nil {
			log.Printf("⚠️ Failed to store notification for user %d: %v", userID, err)
		}
	}

	if bookingHub != nil {
		bookingHub.NotifyBookingEvent(eventType, gin.H{
			"booking_id": booking.ID,
			"reference":  booking.Reference,
			"date":       booking.Date,
			"time":       booking.Time,
			"status":     booking.Status,
			"title":      title,
			"body":       body,
		}, recipients...)
	}
}

// getUserNotifications lists the caller's notifications
func getUserNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var notifications []models.Notification
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  notifications,
		"count": len(notifications),
	})
}

// getUnreadCount returns the caller's unread notification count
func getUnreadCount(c *gin.Context) {
	userID := c.GetUint("user_id")

	var count int64
	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// markNotificationAsRead marks one of the caller's notifications as read
func markNotificationAsRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	result := database.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// markAllNotificationsAsRead marks all of the caller's notifications read
func markAllNotificationsAsRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
