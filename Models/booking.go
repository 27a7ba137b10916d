package Models

import (
	"time"

	"gorm.io/gorm"
)

type AssignmentStatus string

const (
	BookingPending    AssignmentStatus = "PENDING"
	BookingAssigned   AssignmentStatus = "ASSIGNED"
	BookingConfirmed  AssignmentStatus = "CONFIRMED"
	BookingInProgress AssignmentStatus = "IN_PROGRESS"
	BookingCompleted  AssignmentStatus = "COMPLETED"
	BookingCancelled  AssignmentStatus = "CANCELLED"
)

// Booking is one scheduled/consumed therapy session instance.
type Booking struct {
	gorm.Model
	PatientID        uint             `json:"patient_id"`
	PatientName      string           `json:"patient_name"`
	ServiceID        uint             `json:"service_id"`
	ProviderID       *uint            `json:"provider_id" gorm:"default:null"`
	ProviderName     string           `json:"provider_name"`
	PackageID        *uint            `json:"package_id" gorm:"default:null"`
	RequestedDate    string           `json:"requested_date"`
	RequestedTime    string           `json:"requested_time"`
	ConfirmedDate    string           `json:"confirmed_date"`
	ConfirmedTime    string           `json:"confirmed_time"`
	AssignmentStatus AssignmentStatus `gorm:"size:20;not null;default:PENDING" json:"assignment_status"`
	SessionPrice     int64            `json:"session_price"`
	PainScoreBefore  *int             `json:"pain_score_before" gorm:"default:null"`
	PainScoreAfter   *int             `json:"pain_score_after" gorm:"default:null"`
	SessionNotes     string           `json:"session_notes"`
	CompletedAt      *time.Time       `json:"completed_at"`
	ReminderSent     bool             `json:"reminder_sent"`
}

func (booking *Booking) IsCompleted() bool {
	return booking.AssignmentStatus == BookingCompleted
}

func (booking *Booking) IsCancelled() bool {
	return booking.AssignmentStatus == BookingCancelled
}
