package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	WithdrawalStatusPending   = "pending"
	WithdrawalStatusCompleted = "completed"
	WithdrawalStatusFailed    = "failed"
)

// FieldValidation — правило проверки одного поля реквизитов.
// Нулевые значения означают отсутствие ограничения.
type FieldValidation struct {
	Regex     string `json:"regex,omitempty"`
	MinLength int    `json:"min_length,omitempty"`
	MaxLength int    `json:"max_length,omitempty"`
}

// PaymentMethod описывает способ вывода средств из каталога upstream.
type PaymentMethod struct {
	ID               int64                      `json:"id"`
	Name             string                     `json:"name"`
	Code             string                     `json:"code"`
	Description      string                     `json:"description"`
	MinAmount        decimal.Decimal            `json:"min_amount"`
	MaxAmount        decimal.NullDecimal        `json:"max_amount"`
	FeeFixed         decimal.Decimal            `json:"fee_fixed"`
	FeePercentage    decimal.Decimal            `json:"fee_percentage"`
	ProcessingTime   int                        `json:"processing_time"`
	RequiredFields   []string                   `json:"required_fields"`
	FieldValidations map[string]FieldValidation `json:"field_validations"`
	IconURL          string                     `json:"icon_url"`
}

// Rule возвращает правило для поля; ok=false, если ограничений нет.
func (m *PaymentMethod) Rule(field string) (FieldValidation, bool) {
	if m == nil || m.FieldValidations == nil {
		return FieldValidation{}, false
	}
	rule, ok := m.FieldValidations[field]
	return rule, ok
}

// FindMethod ищет метод по коду.
func FindMethod(methods []PaymentMethod, code string) (*PaymentMethod, bool) {
	for i := range methods {
		if methods[i].Code == code {
			return &methods[i], true
		}
	}
	return nil, false
}

// WithdrawalRequest — тело запроса на создание вывода.
type WithdrawalRequest struct {
	Amount         decimal.Decimal   `json:"amount"`
	PaymentMethod  string            `json:"payment_method"`
	PaymentDetails map[string]string `json:"payment_details"`
}

// Withdrawal — заявка на вывод, подтверждённая upstream.
type Withdrawal struct {
	ID             int64             `json:"id"`
	Amount         decimal.Decimal   `json:"amount"`
	Status         string            `json:"status"`
	PaymentMethod  string            `json:"payment_method"`
	PaymentDetails map[string]string `json:"payment_details"`
	CreatedAt      time.Time         `json:"created_at"`
	ProcessedAt    *time.Time        `json:"processed_at,omitempty"`
}
