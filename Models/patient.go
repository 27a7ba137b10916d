package Models

import (
	"time"

	"gorm.io/gorm"
)

type Patient struct {
	gorm.Model
	UserID           uint       `json:"user_id"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	Gender           string     `json:"gender"`
	Age              int        `json:"age"`
	Diagnosis        string     `json:"diagnosis"`
	Notes            string     `json:"notes"`
	InitialPainScore int        `json:"initial_pain_score"`
	CurrentPainScore int        `json:"current_pain_score"`
	LastSessionDate  *time.Time `json:"last_session_date"`
	Packages         []Package  `json:"packages"`
	Bookings         []Booking  `json:"bookings"`
}
