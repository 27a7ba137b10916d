package Models

import (
	"math"

	"gorm.io/gorm"
)

const (
	PayoutPending    = "PENDING"
	PayoutProcessing = "PROCESSING"
	PayoutPaid       = "PAID"
)

// TDSRate is the tax withheld from provider commission before payout.
const TDSRate = 0.10

// Commission records the money split of one completed session. All amounts
// are integers in the smallest currency subunit.
type Commission struct {
	gorm.Model
	BookingID        uint    `gorm:"unique" json:"booking_id"`
	ProviderID       uint    `json:"provider_id"`
	SessionPrice     int64   `json:"session_price"`
	CommissionRate   float64 `json:"commission_rate"`
	CommissionAmount int64   `json:"commission_amount"`
	PlatformFee      int64   `json:"platform_fee"`
	TDSAmount        int64   `json:"tds_amount"`
	NetPayout        int64   `json:"net_payout"`
	PayoutStatus     string  `gorm:"size:20;not null;default:PENDING" json:"payout_status"`
}

// CanAdvanceTo enforces the PENDING -> PROCESSING -> PAID lifecycle.
func (commission *Commission) CanAdvanceTo(status string) bool {
	switch commission.PayoutStatus {
	case PayoutPending:
		return status == PayoutProcessing
	case PayoutProcessing:
		return status == PayoutPaid
	}
	return false
}

func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}

// ComputeCommission derives the money split for one session. Each derived
// quantity is rounded independently from the raw product, never chained,
// so rounding error does not compound.
func ComputeCommission(bookingID, providerID uint, sessionPrice int64, rate float64) Commission {
	commissionAmount := roundHalfUp(float64(sessionPrice) * rate)
	tdsAmount := roundHalfUp(float64(commissionAmount) * TDSRate)
	return Commission{
		BookingID:        bookingID,
		ProviderID:       providerID,
		SessionPrice:     sessionPrice,
		CommissionRate:   rate,
		CommissionAmount: commissionAmount,
		PlatformFee:      sessionPrice - commissionAmount,
		TDSAmount:        tdsAmount,
		NetPayout:        commissionAmount - tdsAmount,
		PayoutStatus:     PayoutPending,
	}
}
