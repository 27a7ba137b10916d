package Models

import "gorm.io/gorm"

// PainScore is written exactly once per completed booking and never
// mutated afterwards.
type PainScore struct {
	gorm.Model
	PatientID     uint `json:"patient_id"`
	ProviderID    uint `json:"provider_id"`
	BookingID     uint `gorm:"unique" json:"booking_id"`
	Score         int  `json:"score"`
	SessionNumber int  `json:"session_number"`
}

const MinPainScore = 1
const MaxPainScore = 10

func ValidPainScore(score int) bool {
	return score >= MinPainScore && score <= MaxPainScore
}
