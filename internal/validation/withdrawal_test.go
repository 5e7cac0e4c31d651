package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/wallet-gateway/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testMethod() *models.PaymentMethod {
	return &models.PaymentMethod{
		ID:            1,
		Name:          "PayPal",
		Code:          "paypal",
		MinAmount:     dec("10"),
		MaxAmount:     decimal.NewNullDecimal(dec("1000")),
		FeeFixed:      dec("2"),
		FeePercentage: dec("1"),
		RequiredFields: []string{
			"email",
			"account_name",
			"note",
		},
		FieldValidations: map[string]models.FieldValidation{
			"email":        {Regex: `/^[^@\s]+@[^@\s]+\.[a-z]{2,}$/`},
			"account_name": {MinLength: 3, MaxLength: 10, Regex: `/^[A-Za-z ]+$/`},
		},
	}
}

func TestValidateField(t *testing.T) {
	m := testMethod()

	tests := []struct {
		name    string
		field   string
		value   string
		wantMsg string
	}{
		{"no rule passes", "note", "", ""},
		{"unknown field passes", "iban", "whatever", ""},
		{"too short", "account_name", "ab", "Minimum length is 3 characters"},
		{"too long", "account_name", "abcdefghijk", "Maximum length is 10 characters"},
		{"length checked before regex", "account_name", "1", "Minimum length is 3 characters"},
		{"bad format within bounds", "account_name", "John 42", "Invalid format"},
		{"valid value", "account_name", "John Doe", ""},
		{"email ok", "email", "user@example.com", ""},
		{"email bad", "email", "user-at-example", "Invalid format"},
		{"empty email fails regex", "email", "", "Invalid format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateField(m, tt.field, tt.value)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestValidateField_CountsCharactersNotBytes(t *testing.T) {
	m := &models.PaymentMethod{FieldValidations: map[string]models.FieldValidation{
		"name": {MaxLength: 4},
	}}
	assert.NoError(t, ValidateField(m, "name", "Пётр"))
	assert.Error(t, ValidateField(m, "name", "Пётр1"))
}

func TestValidateField_RegexDelimitersAndFlags(t *testing.T) {
	m := &models.PaymentMethod{FieldValidations: map[string]models.FieldValidation{
		"upi":       {Regex: "/^[a-z0-9.]+@[a-z]+$/i"},
		"plain":     {Regex: `^\d{4}$`},
		"lookahead": {Regex: `/^(?=.*\d).+$/`},
		"unclosed":  {Regex: `/^abc$`},
	}}

	assert.NoError(t, ValidateField(m, "upi", "John.Doe@OKBANK"))
	assert.ErrorIs(t, ValidateField(m, "upi", "john doe"), ErrInvalidFormat)

	assert.NoError(t, ValidateField(m, "plain", "1234"))
	assert.ErrorIs(t, ValidateField(m, "plain", "12a4"), ErrInvalidFormat)

	// Открывающий слэш без закрывающего тоже снимается.
	assert.NoError(t, ValidateField(m, "unclosed", "abc"))
	assert.ErrorIs(t, ValidateField(m, "unclosed", "/abc"), ErrInvalidFormat)

	// RE2 не поддерживает lookahead: такое правило не блокирует ввод.
	assert.NoError(t, ValidateField(m, "lookahead", "abc"))
}

func TestValidateField_NilMethod(t *testing.T) {
	assert.NoError(t, ValidateField(nil, "email", ""))
}

func TestValidateAmount(t *testing.T) {
	m := testMethod()
	balance := dec("500")

	tests := []struct {
		name    string
		raw     string
		balance decimal.Decimal
		wantMsg string
	}{
		{"valid", "100", balance, ""},
		{"exactly min", "10", balance, ""},
		{"exactly balance", "500", balance, ""},
		{"not a number", "abc", balance, "Please enter a valid amount"},
		{"empty", "", balance, "Please enter a valid amount"},
		{"below min", "9.99", balance, "Minimum withdrawal amount is $10.00"},
		{"negative", "-5", balance, "Minimum withdrawal amount is $10.00"},
		{"above max", "1000.01", dec("5000"), "Maximum withdrawal amount is $1000.00"},
		{"insufficient balance", "100", dec("50"), "Insufficient balance"},
		{"min before balance", "5", dec("1"), "Minimum withdrawal amount is $10.00"},
		{"max before balance", "2000", dec("1"), "Maximum withdrawal amount is $1000.00"},
		{"huge exponent", "1e20000000", balance, "Please enter a valid amount"},
		{"tiny exponent", "1e-20000000", balance, "Please enter a valid amount"},
		{"too long", "1" + strings.Repeat("0", 64), balance, "Please enter a valid amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(m, tt.raw, tt.balance, valueobject.USD)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestParseAmount_ExponentWindow(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
	}{
		{"100.50", true},
		{"1e18", true},
		{"1e-18", true},
		{"1e19", false},
		{"0.0000000000000000001", false},
		{"1e2000000000", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			started := time.Now()
			_, err := ParseAmount(tt.raw)
			assert.Less(t, time.Since(started), time.Second)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestValidateAmount_UnboundedMax(t *testing.T) {
	m := testMethod()
	m.MaxAmount = decimal.NullDecimal{}

	assert.NoError(t, ValidateAmount(m, "1000000", dec("2000000"), valueobject.USD))
}

func TestValidateAmount_ConvertsBeforeBounds(t *testing.T) {
	m := testMethod()
	inr := valueobject.INR(dec("84"))

	// 840 ₹ = 10 $: ровно минимум.
	assert.NoError(t, ValidateAmount(m, "840", dec("5000"), inr))

	err := ValidateAmount(m, "500", dec("5000"), inr)
	var bound *BoundError
	require.True(t, errors.As(err, &bound))
	assert.True(t, bound.Min)
	assert.Equal(t, "Minimum withdrawal amount is ₹840.00", err.Error())

	err = ValidateAmount(m, "84084", dec("100000"), inr)
	require.Error(t, err)
	assert.Equal(t, "Maximum withdrawal amount is ₹84000.00", err.Error())
}

func TestValidateAmount_BalanceComparedUnconverted(t *testing.T) {
	m := testMethod()
	inr := valueobject.INR(dec("84"))

	// 1000 ₹ проходит лимиты (≈11.9 $), но баланс в валюте отображения 900 ₹.
	err := ValidateAmount(m, "1000", dec("900"), inr)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestValidateAmount_NoMethod(t *testing.T) {
	assert.NoError(t, ValidateAmount(nil, "abc", dec("1"), valueobject.USD))
}

func TestValidateWithdrawal_AggregatesErrors(t *testing.T) {
	m := testMethod()

	errs := ValidateWithdrawal(m, "5", map[string]string{"email": "bad"}, dec("500"), valueobject.USD)

	assert.Equal(t, Errors{
		"amount":       "Minimum withdrawal amount is $10.00",
		"email":        "Invalid format",
		"account_name": "Minimum length is 3 characters",
	}, errs)
	assert.Equal(t, []string{"account_name", "amount", "email"}, errs.Fields())
}

func TestValidateWithdrawal_Valid(t *testing.T) {
	m := testMethod()

	errs := ValidateWithdrawal(m, "100", map[string]string{
		"email":        "user@example.com",
		"account_name": "John Doe",
	}, dec("500"), valueobject.USD)

	assert.Empty(t, errs)
}

func TestValidateWithdrawal_NoMethod(t *testing.T) {
	errs := ValidateWithdrawal(nil, "100", nil, dec("500"), valueobject.USD)
	assert.Equal(t, "Please select a payment method", errs[MethodField])
}

func TestRequireFields(t *testing.T) {
	m := testMethod()
	errs := Errors{"account_name": "Minimum length is 3 characters"}

	errs = RequireFields(m, map[string]string{"email": "a@b.co"}, errs)

	assert.Equal(t, "Minimum length is 3 characters", errs["account_name"])
	assert.Equal(t, "This field is required", errs["note"])
	assert.NotContains(t, errs, "email")
}

func TestErrors_ErrorAndMessages(t *testing.T) {
	errs := Errors{"b": "second", "a": "first"}

	assert.Equal(t, "first, second", errs.Error())
	assert.Equal(t, map[string][]string{"a": {"first"}, "b": {"second"}}, errs.AsMessages())
}
