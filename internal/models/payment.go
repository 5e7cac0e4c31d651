package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Типы транзакций
const (
	TransactionTypeEarning       = "earning"
	TransactionTypeWithdrawal    = "withdrawal"
	TransactionTypeReferralBonus = "referral_bonus"
)

// Статусы транзакций
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// TaskRef — краткая ссылка на задание, за которое начислен заработок.
type TaskRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Transaction представляет финансовую транзакцию пользователя (только чтение).
type Transaction struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	TaskID        *int64          `json:"task_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	PaymentMethod *string         `json:"payment_method,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Task          *TaskRef        `json:"task,omitempty"`
	CanDispute    bool            `json:"canDispute"`
}
