package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nutriconnect-server/services"
	"nutriconnect-server/utils"
)

// SubscriptionGate rejects booking creation when the caller's plan limits
// are exceeded. It peeks at the request body for the requested date and
// restores it for the handler. Malformed bodies pass through so the
// handler produces its normal validation errors.
func SubscriptionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		var req struct {
			Date string `json:"date"`
		}
		if err := json.Unmarshal(body, &req); err != nil || req.Date == "" {
			c.Next()
			return
		}

		bookingDate, err := utils.ParseBookingDate(req.Date)
		if err != nil {
			c.Next()
			return
		}

		plan, violation, err := services.EvaluateBookingLimits(userID, bookingDate, time.Now())
		if err != nil {
			log.Printf("❌ Subscription gate failed for user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check subscription limits"})
			c.Abort()
			return
		}

		if violation != nil {
			c.JSON(http.StatusForbidden, LimitPayload(violation))
			c.Abort()
			return
		}

		c.Set("plan", string(plan))
		c.Next()
	}
}

// LimitPayload builds the structured rejection the frontend renders as an
// upgrade prompt.
func LimitPayload(v *services.LimitViolation) gin.H {
	payload := gin.H{
		"error":        v.Message(),
		"limitReached": true,
		"plan":         v.Plan,
	}

	switch v.Reason {
	case services.ViolationMonthlyLimit:
		payload["currentCount"] = v.CurrentCount
		payload["limit"] = v.Limit
	case services.ViolationAdvanceWindow:
		payload["advanceDays"] = v.AdvanceDays
		payload["maxAdvanceDays"] = v.MaxAdvanceDays
	}

	return payload
}
