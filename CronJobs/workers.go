package CronJobs

import (
	"fmt"
	"log"
	"time"

	"AcuCare/Models"
	"AcuCare/Whatsapp"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"
)

const sessionDateTimeLayout = "2006-01-02 3:04 PM"

// SessionReminder sends reminder messages for upcoming confirmed sessions.
type SessionReminder struct {
	DB *gorm.DB
}

func NewSessionReminder(db *gorm.DB) *SessionReminder {
	return &SessionReminder{
		DB: db,
	}
}

// StartReminderCron starts the job that checks for sessions needing a
// reminder.
func (sr *SessionReminder) StartReminderCron() *gocron.Scheduler {
	scheduler := gocron.NewScheduler(time.Local)

	scheduler.Every(1).Minutes().Do(func() {
		if err := sr.SendSessionReminders(); err != nil {
			log.Printf("Error sending session reminders: %v", err)
		}
	})

	scheduler.StartAsync()
	log.Println("Session reminder cron job started")

	return scheduler
}

// SendSessionReminders reminds patients roughly three hours before their
// confirmed session. Each booking is reminded at most once.
func (sr *SessionReminder) SendSessionReminders() error {
	now := time.Now()
	startWindow := now.Add(2*time.Hour + 53*time.Minute)
	endWindow := now.Add(3*time.Hour + 7*time.Minute)

	var bookings []Models.Booking
	result := sr.DB.
		Where("assignment_status IN ? AND reminder_sent = ? AND confirmed_date <> ''",
			[]Models.AssignmentStatus{Models.BookingAssigned, Models.BookingConfirmed}, false).
		Find(&bookings)
	if result.Error != nil {
		return fmt.Errorf("failed to query upcoming bookings: %w", result.Error)
	}

	for _, booking := range bookings {
		sessionTime, err := time.ParseInLocation(sessionDateTimeLayout,
			booking.ConfirmedDate+" "+booking.ConfirmedTime, time.Local)
		if err != nil {
			log.Printf("Failed to parse session time for booking %d: %v", booking.ID, err)
			continue
		}
		if sessionTime.Before(startWindow) || sessionTime.After(endWindow) {
			continue
		}

		var patient Models.Patient
		if err := sr.DB.First(&patient, booking.PatientID).Error; err != nil {
			log.Printf("Failed to find patient for booking %d: %v", booking.ID, err)
			continue
		}
		if patient.Phone == "" {
			continue
		}

		message := fmt.Sprintf(
			"Reminder: You have a session with %s today at %s (in 3 hours). "+
				"Please arrive 10 minutes early. If you need to reschedule, please contact us.",
			booking.ProviderName,
			sessionTime.Format("3:04 PM"),
		)

		if err := Whatsapp.SendMessage(patient.Phone, message); err != nil {
			log.Printf("Failed to send reminder to patient %s: %v", patient.Name, err)
			continue
		}

		if err := sr.DB.Model(&Models.Booking{}).Where("id = ?", booking.ID).
			Update("reminder_sent", true).Error; err != nil {
			log.Printf("Failed to mark reminder sent for booking %d: %v", booking.ID, err)
		}
	}

	return nil
}
