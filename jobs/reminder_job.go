package jobs

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"nutriconnect-server/database"
	"nutriconnect-server/models"
	"nutriconnect-server/utils"
)

// ReminderJob sends appointment reminders for upcoming bookings
type ReminderJob struct {
	interval time.Duration
	window   time.Duration
	stopChan chan bool
}

// NewReminderJob creates a new reminder job. It scans every interval for
// confirmed bookings starting within the next 24 hours that have not been
// reminded yet.
func NewReminderJob() *ReminderJob {
	return &ReminderJob{
		interval: 15 * time.Minute,
		window:   24 * time.Hour,
		stopChan: make(chan bool),
	}
}

// Start begins the reminder job
func (j *ReminderJob) Start() {
	go j.run()
	log.Println("🚀 Reminder job started")
}

// Stop stops the reminder job
func (j *ReminderJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Reminder job stopped")
}

// run executes the reminder job
func (j *ReminderJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.checkUpcomingBookings()
		case <-j.stopChan:
			return
		}
	}
}

// checkUpcomingBookings finds bookings due for a reminder
func (j *ReminderJob) checkUpcomingBookings() {
	now := time.Now().UTC()

	// Bookings store the day and the HH:MM slot separately, so pull the
	// candidate days and filter on the combined start time in memory.
	dayStart := utils.TruncateToUTCDay(now)
	dayEnd := dayStart.Add(48 * time.Hour)

	var candidates []models.Booking
	err := database.DB.
		Where("status = ? AND reminder_sent = ? AND date >= ? AND date < ?",
			models.BookingStatusConfirmed, false, dayStart, dayEnd).
		Find(&candidates).Error
	if err != nil {
		log.Printf("❌ Error checking upcoming bookings: %v", err)
		return
	}

	sent := 0
	for _, booking := range candidates {
		startsAt, err := utils.SlotStart(booking.Date, booking.Time)
		if err != nil {
			log.Printf("⚠️ Booking %d has malformed slot time %q: %v", booking.ID, booking.Time, err)
			continue
		}
		if startsAt.Before(now) || startsAt.After(now.Add(j.window)) {
			continue
		}
		if j.remindBooking(booking, startsAt) {
			sent++
		}
	}

	if sent > 0 {
		log.Printf("⏰ Sent %d booking reminders", sent)
	}
}

// remindBooking writes a reminder notification for both parties and marks
// the booking as reminded.
func (j *ReminderJob) remindBooking(booking models.Booking, startsAt time.Time) bool {
	payload, err := json.Marshal(map[string]interface{}{
		"booking_id": booking.ID,
		"reference":  booking.Reference,
		"date":       booking.Date,
		"time":       booking.Time,
		"starts_at":  startsAt,
	})
	if err != nil {
		log.Printf("❌ Failed to encode reminder payload for booking %d: %v", booking.ID, err)
		return false
	}

	recipients := []uint{booking.UserID}
	var profile models.DietitianProfile
	if err := database.DB.First(&profile, booking.DietitianID).Error; err != nil {
		log.Printf("⚠️ Could not resolve dietitian %d for reminder: %v", booking.DietitianID, err)
	} else {
		recipients = append(recipients, profile.UserID)
	}

	body := fmt.Sprintf("Appointment with %s at %s on %s",
		booking.DietitianName, booking.Time, utils.FormatBookingDate(booking.Date))

	for _, userID := range recipients {
		notification := models.Notification{
			UserID: userID,
			Title:  "Upcoming appointment",
			Body:   body,
			Type:   "booking_reminder",
			Data:   string(payload),
		}
		if err := database.DB.Create(&notification).Error; err != nil {
			log.Printf("❌ Failed to store reminder for user %d: %v", userID, err)
		}
	}

	// Flip the flag even if a notification insert failed above, so a
	// transient error cannot spam the user on every tick.
	err = database.DB.Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Update("reminder_sent", true).Error
	if err != nil {
		log.Printf("❌ Failed to mark booking %d as reminded: %v", booking.ID, err)
		return false
	}

	return true
}
