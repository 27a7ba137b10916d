package Models

import "gorm.io/gorm"

const (
	PackageActive    = "ACTIVE"
	PackageCompleted = "COMPLETED"
)

// Package is a prepaid bundle of therapy sessions bought by a patient.
// SessionsCompleted + SessionsRemaining == TotalSessions at all times.
type Package struct {
	gorm.Model
	PatientID         uint   `json:"patient_id"`
	ServiceID         uint   `json:"service_id"`
	TotalSessions     int    `json:"total_sessions"`
	SessionsCompleted int    `json:"sessions_completed"`
	SessionsRemaining int    `json:"sessions_remaining"`
	PricePerSession   int64  `json:"price_per_session"`
	Status            string `gorm:"size:20;not null;default:ACTIVE" json:"status"`
	PaymentMethod     string `json:"payment_method"`
	IsPaid            bool   `json:"is_paid"`
}

// ConsumeSession moves one session from remaining to completed and flips
// the package to COMPLETED when the last session is used.
func (pkg *Package) ConsumeSession() {
	pkg.SessionsCompleted += 1
	pkg.SessionsRemaining -= 1
	if pkg.SessionsRemaining == 0 {
		pkg.Status = PackageCompleted
	}
}

type Service struct {
	gorm.Model
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           int64  `json:"price"` // smallest currency subunit
	DurationMinutes int    `json:"duration_minutes"`
}
