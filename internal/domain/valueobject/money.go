package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/wallet-gateway/internal/pkg/apperror"
)

// BaseCurrencyCode — валюта, в которой upstream хранит балансы и лимиты методов.
const BaseCurrencyCode = "USD"

// Currency описывает валюту отображения: символ и курс относительно базовой валюты.
// Rate — сколько единиц валюты отображения приходится на одну базовую.
type Currency struct {
	Code   string
	Symbol string
	Rate   decimal.Decimal
}

// USD — базовая валюта.
var USD = Currency{Code: BaseCurrencyCode, Symbol: "$", Rate: decimal.NewFromInt(1)}

// INR создаёт рупию с заданным курсом к доллару.
func INR(rate decimal.Decimal) Currency {
	return Currency{Code: "INR", Symbol: "₹", Rate: rate}
}

// NewCurrency проверяет курс и возвращает валюту.
func NewCurrency(code, symbol string, rate decimal.Decimal) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Currency{}, apperror.New(apperror.ErrCodeValidation, "код валюты обязателен")
	}
	if !rate.IsPositive() {
		return Currency{}, apperror.New(apperror.ErrCodeValidation, "курс валюты должен быть положительным")
	}
	return Currency{Code: code, Symbol: symbol, Rate: rate}, nil
}

// IsBase сообщает, совпадает ли валюта отображения с базовой.
func (c Currency) IsBase() bool {
	return c.Code == BaseCurrencyCode || c.Rate.IsZero() || c.Rate.Equal(decimal.NewFromInt(1))
}

// ToBase переводит сумму из валюты отображения в базовую.
func (c Currency) ToBase(amount decimal.Decimal) decimal.Decimal {
	if c.IsBase() {
		return amount
	}
	return amount.Div(c.Rate)
}

// FromBase переводит сумму из базовой валюты в валюту отображения.
func (c Currency) FromBase(amount decimal.Decimal) decimal.Decimal {
	if c.IsBase() {
		return amount
	}
	return amount.Mul(c.Rate)
}

// Format форматирует сумму в базовой валюте для показа пользователю.
func (c Currency) Format(baseAmount decimal.Decimal) string {
	return c.FormatDisplay(c.FromBase(baseAmount))
}

// FormatDisplay форматирует сумму, уже выраженную в валюте отображения.
// Округление до двух знаков происходит только здесь.
func (c Currency) FormatDisplay(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + c.Symbol + amount.Neg().StringFixed(2)
	}
	return c.Symbol + amount.StringFixed(2)
}

// CurrencySet — набор поддерживаемых валют отображения с валютой по умолчанию.
type CurrencySet struct {
	byCode   map[string]Currency
	fallback Currency
}

// NewCurrencySet собирает набор валют. Первая валюта с кодом defaultCode становится умолчанием.
func NewCurrencySet(defaultCode string, currencies ...Currency) CurrencySet {
	set := CurrencySet{byCode: make(map[string]Currency, len(currencies)), fallback: USD}
	for _, cur := range currencies {
		set.byCode[cur.Code] = cur
	}
	if cur, ok := set.byCode[strings.ToUpper(defaultCode)]; ok {
		set.fallback = cur
	}
	return set
}

// Resolve возвращает валюту по коду или валюту по умолчанию, если код пустой или неизвестен.
func (s CurrencySet) Resolve(code string) Currency {
	if cur, ok := s.byCode[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return cur
	}
	return s.fallback
}

// Default возвращает валюту по умолчанию.
func (s CurrencySet) Default() Currency {
	return s.fallback
}
