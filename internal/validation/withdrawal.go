package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/models"
)

// Сообщения повторяют тексты, которые видит пользователь в форме вывода.
var (
	ErrInvalidAmount       = errors.New("Please enter a valid amount")
	ErrInsufficientBalance = errors.New("Insufficient balance")
	ErrInvalidFormat       = errors.New("Invalid format")
	ErrFieldRequired       = errors.New("This field is required")
	ErrMethodRequired      = errors.New("Please select a payment method")
)

// LengthError — нарушение min_length/max_length.
type LengthError struct {
	Min   bool
	Limit int
}

func (e *LengthError) Error() string {
	if e.Min {
		return fmt.Sprintf("Minimum length is %d characters", e.Limit)
	}
	return fmt.Sprintf("Maximum length is %d characters", e.Limit)
}

// BoundError — сумма вне лимитов метода. Bound уже отформатирован в валюте отображения.
type BoundError struct {
	Min   bool
	Bound string
}

func (e *BoundError) Error() string {
	if e.Min {
		return "Minimum withdrawal amount is " + e.Bound
	}
	return "Maximum withdrawal amount is " + e.Bound
}

// Границы разбора суммы. Сравнение decimal приводит операнды к общему порядку,
// поэтому порядок вроде 1e20000000 стоил бы секунд CPU и памяти.
const (
	maxAmountLength   = 64
	maxAmountExponent = 18
)

// ParseAmount разбирает введённую сумму. Слишком длинная запись или порядок
// вне [-18, 18] считаются невалидной суммой.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxAmountLength {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if exp := amount.Exponent(); exp < -maxAmountExponent || exp > maxAmountExponent {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

// ValidateField проверяет значение поля реквизитов по правилу метода.
// Проверки идут в порядке min_length, max_length, regex; возвращается первая сработавшая.
func ValidateField(method *models.PaymentMethod, field, value string) error {
	rule, ok := method.Rule(field)
	if !ok {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if rule.MinLength > 0 && length < rule.MinLength {
		return &LengthError{Min: true, Limit: rule.MinLength}
	}
	if rule.MaxLength > 0 && length > rule.MaxLength {
		return &LengthError{Limit: rule.MaxLength}
	}

	if rule.Regex != "" {
		re, ok := compilePattern(rule.Regex)
		if ok && !re.MatchString(value) {
			return ErrInvalidFormat
		}
	}
	return nil
}

// ValidateAmount проверяет сумму против лимитов метода и доступного баланса.
// Лимиты сравниваются с суммой в базовой валюте, баланс — с суммой как она введена,
// поэтому availableBalance должен быть выражен в валюте отображения.
func ValidateAmount(method *models.PaymentMethod, raw string, availableBalance decimal.Decimal, currency valueobject.Currency) error {
	if method == nil {
		return nil
	}

	amount, err := ParseAmount(raw)
	if err != nil {
		return err
	}

	base := currency.ToBase(amount)
	if base.LessThan(method.MinAmount) {
		return &BoundError{Min: true, Bound: currency.Format(method.MinAmount)}
	}
	if method.MaxAmount.Valid && base.GreaterThan(method.MaxAmount.Decimal) {
		return &BoundError{Bound: currency.Format(method.MaxAmount.Decimal)}
	}
	if amount.GreaterThan(availableBalance) {
		return ErrInsufficientBalance
	}
	return nil
}

// ValidateWithdrawal собирает все ошибки формы: сумму и каждое обязательное поле метода.
// Отсутствующее значение проверяется как пустая строка.
func ValidateWithdrawal(method *models.PaymentMethod, amount string, fields map[string]string, availableBalance decimal.Decimal, currency valueobject.Currency) Errors {
	errs := Errors{}
	if method == nil {
		errs[MethodField] = ErrMethodRequired.Error()
		return errs
	}

	if err := ValidateAmount(method, amount, availableBalance, currency); err != nil {
		errs[AmountField] = err.Error()
	}

	for _, field := range method.RequiredFields {
		if err := ValidateField(method, field, fields[field]); err != nil {
			errs[field] = err.Error()
		}
	}
	return errs
}

// RequireFields отмечает незаполненные обязательные поля, для которых ещё нет ошибки.
func RequireFields(method *models.PaymentMethod, fields map[string]string, errs Errors) Errors {
	if method == nil {
		return errs
	}
	for _, field := range method.RequiredFields {
		if _, exists := errs[field]; exists {
			continue
		}
		if strings.TrimSpace(fields[field]) == "" {
			errs[field] = ErrFieldRequired.Error()
		}
	}
	return errs
}

// compilePattern снимает разделители вида /pattern/flags и компилирует выражение.
// Ведущий слэш снимается всегда, даже без закрывающего: "/abc" компилируется как "abc".
// Шаблон, который RE2 не понимает, не ограничивает ввод: окончательную проверку делает сервер.
func compilePattern(raw string) (*regexp.Regexp, bool) {
	pattern := raw
	if strings.HasPrefix(raw, "/") {
		pattern = raw[1:]
		if end := strings.LastIndex(raw, "/"); end > 0 {
			pattern = raw[1:end]
			flags := raw[end+1:]
			var prefix string
			for _, f := range []string{"i", "m", "s"} {
				if strings.Contains(flags, f) {
					prefix += f
				}
			}
			if prefix != "" {
				pattern = "(?" + prefix + ")" + pattern
			}
		}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, false
	}
	return re, true
}
