package models

import "github.com/shopspring/decimal"

// Статусы проверки документа, удостоверяющего личность.
const (
	GovernmentIDStatusNone     = "none"
	GovernmentIDStatusPending  = "pending"
	GovernmentIDStatusApproved = "approved"
	GovernmentIDStatusRejected = "rejected"
)

// UserProfile — часть профиля пользователя, нужная кошельку.
// Имена полей повторяют контракт upstream, включая camelCase.
type UserProfile struct {
	Balance            decimal.Decimal `json:"balance"`
	PendingEarnings    decimal.Decimal `json:"pending_earnings"`
	TotalWithdrawn     decimal.Decimal `json:"totalWithdrawn"`
	ReferralCode       string          `json:"referral_code,omitempty"`
	ReferralEarnings   decimal.Decimal `json:"referral_earnings"`
	GovernmentIDStatus string          `json:"governmentIdStatus"`
}

// CanWithdraw сообщает, подтверждён ли документ пользователя.
func (p *UserProfile) CanWithdraw() bool {
	return p != nil && p.GovernmentIDStatus == GovernmentIDStatusApproved
}
