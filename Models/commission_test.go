package Models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCommissionReferenceValues(t *testing.T) {
	commission := ComputeCommission(1, 2, 1000, 0.75)

	assert.Equal(t, int64(750), commission.CommissionAmount)
	assert.Equal(t, int64(250), commission.PlatformFee)
	assert.Equal(t, int64(75), commission.TDSAmount)
	assert.Equal(t, int64(675), commission.NetPayout)
	assert.Equal(t, PayoutPending, commission.PayoutStatus)
}

func TestComputeCommissionRoundsHalfUpIndependently(t *testing.T) {
	// 333 * 0.75 = 249.75 -> 250; 250 * 0.10 = 25 exactly
	commission := ComputeCommission(1, 2, 333, 0.75)
	assert.Equal(t, int64(250), commission.CommissionAmount)
	assert.Equal(t, int64(83), commission.PlatformFee)
	assert.Equal(t, int64(25), commission.TDSAmount)
	assert.Equal(t, int64(225), commission.NetPayout)

	// 335 * 0.75 = 251.25 -> 251; 251 * 0.10 = 25.1 -> 25 (from the raw
	// product, not from a chained rounded value)
	commission = ComputeCommission(1, 2, 335, 0.75)
	assert.Equal(t, int64(251), commission.CommissionAmount)
	assert.Equal(t, int64(25), commission.TDSAmount)
}

func TestComputeCommissionZeroRate(t *testing.T) {
	commission := ComputeCommission(1, 2, 1000, 0)
	assert.Equal(t, int64(0), commission.CommissionAmount)
	assert.Equal(t, int64(1000), commission.PlatformFee)
	assert.Equal(t, int64(0), commission.TDSAmount)
	assert.Equal(t, int64(0), commission.NetPayout)
}

func TestComputeCommissionSplitIsExhaustive(t *testing.T) {
	for _, price := range []int64{1, 99, 333, 1000, 99999} {
		commission := ComputeCommission(1, 2, price, 0.75)
		assert.Equal(t, price, commission.CommissionAmount+commission.PlatformFee,
			"commission and platform fee must add up to the session price")
		assert.Equal(t, commission.CommissionAmount, commission.TDSAmount+commission.NetPayout,
			"TDS and net payout must add up to the commission")
	}
}

func TestEffectiveCommissionRate(t *testing.T) {
	var provider Provider
	assert.Equal(t, DefaultCommissionRate, provider.EffectiveCommissionRate())

	zero := 0.0
	provider.CommissionRate = &zero
	assert.Equal(t, 0.0, provider.EffectiveCommissionRate(), "a stored 0 is a real rate, not unset")

	custom := 0.6
	provider.CommissionRate = &custom
	assert.Equal(t, 0.6, provider.EffectiveCommissionRate())
}

func TestPackageConsumeSession(t *testing.T) {
	pkg := Package{TotalSessions: 2, SessionsCompleted: 0, SessionsRemaining: 2, Status: PackageActive}

	pkg.ConsumeSession()
	assert.Equal(t, 1, pkg.SessionsCompleted)
	assert.Equal(t, 1, pkg.SessionsRemaining)
	assert.Equal(t, PackageActive, pkg.Status)
	assert.Equal(t, pkg.TotalSessions, pkg.SessionsCompleted+pkg.SessionsRemaining)

	pkg.ConsumeSession()
	assert.Equal(t, 2, pkg.SessionsCompleted)
	assert.Equal(t, 0, pkg.SessionsRemaining)
	assert.Equal(t, PackageCompleted, pkg.Status)
	assert.Equal(t, pkg.TotalSessions, pkg.SessionsCompleted+pkg.SessionsRemaining)
}

func TestCommissionPayoutTransitions(t *testing.T) {
	commission := Commission{PayoutStatus: PayoutPending}
	assert.True(t, commission.CanAdvanceTo(PayoutProcessing))
	assert.False(t, commission.CanAdvanceTo(PayoutPaid))
	assert.False(t, commission.CanAdvanceTo(PayoutPending))

	commission.PayoutStatus = PayoutProcessing
	assert.True(t, commission.CanAdvanceTo(PayoutPaid))
	assert.False(t, commission.CanAdvanceTo(PayoutPending))

	commission.PayoutStatus = PayoutPaid
	assert.False(t, commission.CanAdvanceTo(PayoutProcessing))
	assert.False(t, commission.CanAdvanceTo(PayoutPaid))
}

func TestValidPainScore(t *testing.T) {
	assert.False(t, ValidPainScore(0))
	assert.True(t, ValidPainScore(1))
	assert.True(t, ValidPainScore(10))
	assert.False(t, ValidPainScore(11))
	assert.False(t, ValidPainScore(-3))
}
