package websocket

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nutriconnect-server/database"
	"nutriconnect-server/models"
)

// DietitianHandler upgrades dietitian connections onto the booking feed so
// they see new, rescheduled and cancelled appointments without polling.
type DietitianHandler struct {
	hub *Hub
}

func NewDietitianHandler(hub *Hub) *DietitianHandler {
	return &DietitianHandler{hub: hub}
}

// HandleDietitian authenticates the caller as a dietitian and joins them
// to the feed.
func (h *DietitianHandler) HandleDietitian(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var profile models.DietitianProfile
	if err := database.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		log.Printf("❌ Dietitian profile not found for user %d", userID)
		c.JSON(http.StatusForbidden, gin.H{"error": "Dietitian profile required"})
		return
	}

	ServeWebSocket(h.hub, c.Writer, c.Request, userID, string(models.RoleDietitian))
}
