package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"nutriconnect-server/database"
	"nutriconnect-server/middleware"
	"nutriconnect-server/models"
	"nutriconnect-server/services"
	"nutriconnect-server/utils"
)

// RegisterBookingRoutes registers all booking-related routes
func RegisterBookingRoutes(router *gin.RouterGroup) {
	bookingRoutes := router.Group("/bookings")
	{
		// Create a booking; the subscription gate runs first
		bookingRoutes.POST("/create", middleware.SubscriptionGate(), createBooking)

		// Pre-flight plan limit check for the booking form
		bookingRoutes.POST("/check-limits", checkBookingLimits)

		// Booking lists
		bookingRoutes.GET("/user/:userId", getUserBookings)
		bookingRoutes.GET("/dietitian/:dietitianId", getDietitianBookings)

		// Slot availability queries
		bookingRoutes.GET("/dietitian/:dietitianId/booked-slots", getDietitianBookedSlots)
		bookingRoutes.GET("/user/:userId/booked-slots", getUserBookedSlots)

		// Lifecycle operations
		bookingRoutes.PATCH("/:bookingId/status", updateBookingStatus)
		bookingRoutes.PATCH("/:bookingId/reschedule", rescheduleBooking)
		bookingRoutes.DELETE("/:bookingId", cancelBooking)
	}
}

// createBooking creates a confirmed booking. Payment has already succeeded
// upstream, so a validation or conflict failure here means the caller has
// to resolve the payment separately; nothing is persisted on failure.
func createBooking(c *gin.Context) {
	var req models.BookingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields", "details": err.Error()})
		return
	}

	// The subscription gate checked the authenticated caller's limits, so
	// the booking must land on that same account whatever the payload says.
	req.UserID = effectiveBookingUser(c.GetUint("user_id"), req.UserID)

	if !utils.ValidEmail(req.UserEmail) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	date, err := utils.ParseBookingDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if date.Before(utils.TruncateToUTCDay(time.Now())) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot book a date in the past"})
		return
	}

	if !utils.IsValidSlotTime(req.Time) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time slot, expected HH:MM within working hours"})
		return
	}

	// Clean pre-check; the unique index on payment_id is the hard guarantee
	used, err := services.PaymentIDExists(req.PaymentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment"})
		return
	}
	if used {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment ID already used"})
		return
	}

	var dietitian models.DietitianProfile
	if err := database.DB.Preload("User").First(&dietitian, req.DietitianID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dietitian not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dietitian"})
		}
		return
	}

	booking := models.Booking{
		Reference:      uuid.NewString(),
		UserID:         req.UserID,
		DietitianID:    dietitian.ID,
		UserName:       req.UserName,
		UserEmail:      req.UserEmail,
		UserPhone:      req.UserPhone,
		DietitianName:  dietitian.User.FullName,
		DietitianEmail: dietitian.User.Email,
		Date:           date,
		Time:           req.Time,
		Amount:         req.Amount,
		PaymentMethod:  req.PaymentMethod,
		PaymentID:      req.PaymentID,
		PaymentStatus:  "paid",
		Status:         models.BookingStatusConfirmed,
	}

	if err := services.CreateBooking(&booking); err != nil {
		respondBookingConflict(c, err, http.StatusConflict)
		return
	}

	// Best-effort: a failed notification never fails the booking
	notifyBookingEvent(&booking, "booking_created",
		"New Appointment", fmt.Sprintf("%s booked %s at %s", booking.UserName, utils.FormatBookingDate(booking.Date), booking.Time))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created successfully",
		"data":    booking,
	})
}

// effectiveBookingUser picks the account a booking binds to: the
// authenticated caller when there is one, the payload's user otherwise
// (unauthenticated creates carry the user in the body).
func effectiveBookingUser(authID, bodyID uint) uint {
	if authID != 0 {
		return authID
	}
	return bodyID
}

// respondBookingConflict translates conflict-validator errors to HTTP.
// conflictStatus is 409 on create and 400 on reschedule.
func respondBookingConflict(c *gin.Context, err error, conflictStatus int) {
	var userConflict *services.UserConflictError
	switch {
	case errors.As(err, &userConflict):
		c.JSON(conflictStatus, gin.H{
			"error":                userConflict.Error(),
			"conflictingDietitian": userConflict.DietitianName,
			"conflictingTime":      userConflict.Time,
		})
	case errors.Is(err, services.ErrSlotTaken):
		c.JSON(conflictStatus, gin.H{"error": "This slot is already booked with this dietitian"})
	case errors.Is(err, services.ErrSlotBlocked):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This slot is blocked by the dietitian"})
	case errors.Is(err, services.ErrPaymentIDUsed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment ID already used"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save booking"})
	}
}

// getUserBookings lists a user's bookings, optionally filtered by status
func getUserBookings(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	query := database.DB.Where("user_id = ?", userID)

	if status := c.Query("status"); status != "" {
		if !models.IsValidStatus(models.BookingStatus(status)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("status = ?", status)
	}

	order := "date DESC, time DESC"
	if c.Query("sort") == "asc" {
		order = "date ASC, time ASC"
	}

	var bookings []models.Booking
	if err := query.Order(order).Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  bookings,
		"count": len(bookings),
	})
}

// getDietitianBookings lists a dietitian's bookings
func getDietitianBookings(c *gin.Context) {
	dietitianID, err := strconv.ParseUint(c.Param("dietitianId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dietitian ID"})
		return
	}

	query := database.DB.Where("dietitian_id = ?", dietitianID)

	if status := c.Query("status"); status != "" {
		if !models.IsValidStatus(models.BookingStatus(status)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		query = query.Where("status = ?", status)
	}

	order := "date DESC, time DESC"
	if c.Query("sort") == "asc" {
		order = "date ASC, time ASC"
	}

	var bookings []models.Booking
	if err := query.Order(order).Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  bookings,
		"count": len(bookings),
	})
}

// updateBookingStatus transitions a booking's status
func updateBookingStatus(c *gin.Context) {
	bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req models.BookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	if !models.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid status %q", req.Status)})
		return
	}

	var booking models.Booking
	if err := database.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booking"})
		}
		return
	}

	if !booking.CanTransitionTo(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Cannot change status of a booking that is already %s", booking.Status),
		})
		return
	}

	booking.Status = req.Status
	if err := database.DB.Save(&booking).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		return
	}

	notifyBookingEvent(&booking, "booking_status",
		"Appointment Updated", fmt.Sprintf("Your appointment on %s at %s is now %s", utils.FormatBookingDate(booking.Date), booking.Time, booking.Status))

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking status updated",
		"data":    booking,
	})
}

// cancelBooking cancels a booking. Bookings are never hard-deleted; a
// cancel is a status transition and terminal states stay as they are.
func cancelBooking(c *gin.Context) {
	bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var booking models.Booking
	if err := database.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booking"})
		}
		return
	}

	if booking.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Cannot cancel a booking that is already %s", booking.Status),
		})
		return
	}

	booking.Status = models.BookingStatusCancelled
	if err := database.DB.Save(&booking).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		return
	}

	notifyBookingEvent(&booking, "booking_cancelled",
		"Appointment Cancelled", fmt.Sprintf("The appointment on %s at %s was cancelled", utils.FormatBookingDate(booking.Date), booking.Time))

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled successfully",
		"data":    booking,
	})
}

// rescheduleBooking moves a non-terminal booking to a new slot
func rescheduleBooking(c *gin.Context) {
	bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req models.BookingRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date and time are required"})
		return
	}

	newDate, err := utils.ParseBookingDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if newDate.Before(utils.TruncateToUTCDay(time.Now())) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot reschedule to a date in the past"})
		return
	}

	if !utils.IsValidSlotTime(req.Time) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time slot, expected HH:MM within working hours"})
		return
	}

	var booking models.Booking
	if err := database.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booking"})
		}
		return
	}

	if booking.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Cannot reschedule a booking that is already %s", booking.Status),
		})
		return
	}

	if err := services.RescheduleBooking(&booking, newDate, req.Time); err != nil {
		respondBookingConflict(c, err, http.StatusBadRequest)
		return
	}

	booking.Date = newDate
	booking.Time = req.Time

	notifyBookingEvent(&booking, "booking_rescheduled",
		"Appointment Rescheduled", fmt.Sprintf("The appointment was moved to %s at %s", utils.FormatBookingDate(booking.Date), booking.Time))

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking rescheduled successfully",
		"data": gin.H{
			"id":        booking.ID,
			"reference": booking.Reference,
			"date":      utils.FormatBookingDate(booking.Date),
			"time":      booking.Time,
			"status":    booking.Status,
		},
	})
}

// checkBookingLimits is the pre-flight subscription gate check the booking
// form calls before collecting payment.
func checkBookingLimits(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date is required"})
		return
	}

	bookingDate, err := utils.ParseBookingDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	plan, violation, err := services.EvaluateBookingLimits(userID, bookingDate, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check subscription limits"})
		return
	}

	if violation != nil {
		c.JSON(http.StatusForbidden, middleware.LimitPayload(violation))
		return
	}

	limits := models.LimitsForPlan(plan)
	count, err := services.CountMonthlyBookings(userID, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"allowed":      true,
		"limitReached": false,
		"plan":         plan,
		"limits": gin.H{
			"monthlyBookings":    limits.MonthlyBookings,
			"advanceBookingDays": limits.AdvanceBookingDays,
		},
		"currentCount": count,
	})
}
