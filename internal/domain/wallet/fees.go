package wallet

import (
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/models"
	"github.com/ignatzorin/wallet-gateway/internal/validation"
)

var hundred = decimal.NewFromInt(100)

// FeeQuote — расчёт комиссии для введённой суммы. Значения не округляются.
type FeeQuote struct {
	Amount decimal.Decimal
	Fee    decimal.Decimal
	Total  decimal.Decimal
}

// IsZero сообщает, что расчёт пустой (метод не выбран или сумма не введена).
func (q FeeQuote) IsZero() bool {
	return q.Amount.IsZero() && q.Fee.IsZero() && q.Total.IsZero()
}

// CalculateFees считает комиссию: fee_fixed + fee_percentage% от суммы.
// Для пустой или нечисловой суммы и для nil метода возвращает нулевой расчёт.
func CalculateFees(method *models.PaymentMethod, raw string) FeeQuote {
	if method == nil {
		return FeeQuote{}
	}
	amount, err := validation.ParseAmount(raw)
	if err != nil {
		return FeeQuote{}
	}

	fee := method.FeeFixed.Add(method.FeePercentage.Div(hundred).Mul(amount))
	return FeeQuote{
		Amount: amount,
		Fee:    fee,
		Total:  amount.Add(fee),
	}
}

// FeeSummary — расчёт, готовый к показу.
type FeeSummary struct {
	Amount         string `json:"amount"`
	Fee            string `json:"fee"`
	Total          string `json:"total"`
	ProcessingTime int    `json:"processing_time_hours"`
}

// Summary форматирует расчёт в валюте отображения: суммы в нём уже выражены в этой валюте.
func (q FeeQuote) Summary(currency valueobject.Currency, processingHours int) FeeSummary {
	return FeeSummary{
		Amount:         currency.FormatDisplay(q.Amount),
		Fee:            currency.FormatDisplay(q.Fee),
		Total:          currency.FormatDisplay(q.Total),
		ProcessingTime: processingHours,
	}
}
