package withdrawal

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/domain/wallet"
	"github.com/ignatzorin/wallet-gateway/internal/models"
	"github.com/ignatzorin/wallet-gateway/internal/validation"
)

// Form — состояние формы вывода: выбранный метод, введённая сумма, реквизиты и текущие ошибки.
// Ошибки пересчитываются при каждом изменении поля, как при вводе в форму.
type Form struct {
	Method  *models.PaymentMethod
	Amount  string
	Fields  map[string]string
	Errors  validation.Errors
	balance decimal.Decimal
	cur     valueobject.Currency
}

// NewForm создаёт форму; balance задан в валюте отображения.
func NewForm(method *models.PaymentMethod, balance decimal.Decimal, currency valueobject.Currency) *Form {
	return &Form{
		Method:  method,
		Fields:  map[string]string{},
		Errors:  validation.Errors{},
		balance: balance,
		cur:     currency,
	}
}

// SelectMethod меняет метод. Введённые значения сохраняются и проверяются заново.
func (f *Form) SelectMethod(method *models.PaymentMethod) {
	f.Method = method
	f.Errors = validation.Errors{}
	if f.Amount != "" {
		f.SetAmount(f.Amount)
	}
	for field, value := range f.Fields {
		f.SetField(field, value)
	}
}

func (f *Form) SetAmount(raw string) {
	f.Amount = raw
	f.setError(validation.AmountField, validation.ValidateAmount(f.Method, raw, f.balance, f.cur))
}

func (f *Form) SetField(field, value string) {
	f.Fields[field] = value
	f.setError(field, validation.ValidateField(f.Method, field, value))
}

func (f *Form) setError(field string, err error) {
	if err != nil {
		f.Errors[field] = err.Error()
		return
	}
	delete(f.Errors, field)
}

// IsComplete — метод выбран, сумма введена и все обязательные поля заполнены.
func (f *Form) IsComplete() bool {
	if f.Method == nil || strings.TrimSpace(f.Amount) == "" {
		return false
	}
	for _, field := range f.Method.RequiredFields {
		if strings.TrimSpace(f.Fields[field]) == "" {
			return false
		}
	}
	return true
}

// CanSubmit повторяет правило доступности кнопки отправки.
func (f *Form) CanSubmit() bool {
	return len(f.Errors) == 0 && f.IsComplete()
}

// Validate выполняет полную проверку перед отправкой и заменяет текущие ошибки.
func (f *Form) Validate() validation.Errors {
	errs := validation.ValidateWithdrawal(f.Method, f.Amount, f.Fields, f.balance, f.cur)
	if f.Method != nil && strings.TrimSpace(f.Amount) == "" {
		errs[validation.AmountField] = validation.ErrInvalidAmount.Error()
	}
	errs = validation.RequireFields(f.Method, f.Fields, errs)
	f.Errors = errs
	return errs
}

// Quote считает комиссию по введённой сумме.
func (f *Form) Quote() wallet.FeeQuote {
	return wallet.CalculateFees(f.Method, f.Amount)
}

// Request собирает тело запроса. Сумма переводится в базовую валюту.
func (f *Form) Request() (models.WithdrawalRequest, error) {
	if f.Method == nil {
		return models.WithdrawalRequest{}, validation.ErrMethodRequired
	}
	amount, err := validation.ParseAmount(f.Amount)
	if err != nil {
		return models.WithdrawalRequest{}, err
	}

	details := make(map[string]string, len(f.Fields))
	for field, value := range f.Fields {
		details[field] = value
	}

	return models.WithdrawalRequest{
		Amount:         f.cur.ToBase(amount),
		PaymentMethod:  f.Method.Code,
		PaymentDetails: details,
	}, nil
}
