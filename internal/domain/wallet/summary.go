package wallet

import (
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/models"
)

// Summary — сводка кошелька в валюте отображения.
type Summary struct {
	Currency         string `json:"currency"`
	AvailableBalance string `json:"available_balance"`
	PendingEarnings  string `json:"pending_earnings"`
	TotalEarnings    string `json:"total_earnings"`
	TotalWithdrawn   string `json:"total_withdrawn"`
	ReferralEarnings string `json:"referral_earnings"`
	ReferralCode     string `json:"referral_code,omitempty"`
	CanWithdraw      bool   `json:"can_withdraw"`
	Verified         bool   `json:"verified"`
}

// Summarize считает сводку по профилю. Суммы профиля заданы в базовой валюте.
func Summarize(profile *models.UserProfile, currency valueobject.Currency) Summary {
	if profile == nil {
		profile = &models.UserProfile{}
	}
	total := profile.Balance.Add(profile.PendingEarnings)
	return Summary{
		Currency:         currency.Code,
		AvailableBalance: currency.Format(profile.Balance),
		PendingEarnings:  currency.Format(profile.PendingEarnings),
		TotalEarnings:    currency.Format(total),
		TotalWithdrawn:   currency.Format(profile.TotalWithdrawn),
		ReferralEarnings: currency.Format(profile.ReferralEarnings),
		ReferralCode:     profile.ReferralCode,
		CanWithdraw:      profile.Balance.GreaterThan(decimal.Zero),
		Verified:         profile.CanWithdraw(),
	}
}

// AvailableInDisplay переводит баланс профиля в валюту отображения для проверки суммы.
func AvailableInDisplay(profile *models.UserProfile, currency valueobject.Currency) decimal.Decimal {
	if profile == nil {
		return decimal.Zero
	}
	return currency.FromBase(profile.Balance)
}
