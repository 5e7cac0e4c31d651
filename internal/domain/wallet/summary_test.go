package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/models"
)

func TestSummarize(t *testing.T) {
	profile := &models.UserProfile{
		Balance:            dec("120.5"),
		PendingEarnings:    dec("30"),
		TotalWithdrawn:     dec("400"),
		ReferralEarnings:   dec("12.25"),
		ReferralCode:       "ABC123",
		GovernmentIDStatus: models.GovernmentIDStatusApproved,
	}

	s := Summarize(profile, valueobject.USD)

	assert.Equal(t, Summary{
		Currency:         "USD",
		AvailableBalance: "$120.50",
		PendingEarnings:  "$30.00",
		TotalEarnings:    "$150.50",
		TotalWithdrawn:   "$400.00",
		ReferralEarnings: "$12.25",
		ReferralCode:     "ABC123",
		CanWithdraw:      true,
		Verified:         true,
	}, s)
}

func TestSummarize_EmptyBalance(t *testing.T) {
	s := Summarize(&models.UserProfile{GovernmentIDStatus: models.GovernmentIDStatusPending}, valueobject.USD)

	assert.False(t, s.CanWithdraw)
	assert.False(t, s.Verified)
	assert.Equal(t, "$0.00", s.TotalEarnings)
}

func TestAvailableInDisplay(t *testing.T) {
	profile := &models.UserProfile{Balance: dec("10")}

	assert.True(t, AvailableInDisplay(profile, valueobject.INR(dec("84"))).Equal(dec("840")))
	assert.True(t, AvailableInDisplay(profile, valueobject.USD).Equal(dec("10")))
	assert.True(t, AvailableInDisplay(nil, valueobject.USD).IsZero())
}
