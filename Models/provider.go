package Models

import (
	"gorm.io/gorm"
)

const (
	ProviderActive   = "ACTIVE"
	ProviderInactive = "INACTIVE"
	ProviderPending  = "PENDING"
)

// DefaultCommissionRate applies when a provider record carries no rate of
// its own. A stored rate of 0 is a real 0% rate, not "unset".
const DefaultCommissionRate = 0.75

type Provider struct {
	gorm.Model
	UserID         uint     `json:"user_id"`
	Name           string   `json:"name"`
	Phone          string   `json:"phone"`
	Status         string   `gorm:"size:20;not null;default:PENDING" json:"status"`
	CommissionRate *float64 `gorm:"default:null" json:"commission_rate"`
	Rating         float64  `json:"rating"`
	TotalSessions  int      `json:"total_sessions"`
	BadgeLevel     string   `json:"badge_level"`
	PhotoUrl       string   `json:"photo_url"`
}

func (provider *Provider) IsActive() bool {
	return provider.Status == ProviderActive
}

func (provider *Provider) EffectiveCommissionRate() float64 {
	if provider.CommissionRate == nil {
		return DefaultCommissionRate
	}
	return *provider.CommissionRate
}
