package validation

import (
	"sort"
	"strings"
)

// AmountField — ключ ошибки суммы в карте ошибок формы.
const AmountField = "amount"

// MethodField — ключ ошибки выбора способа вывода.
const MethodField = "payment_method"

// Errors — ошибки формы по полям: поле -> сообщение.
type Errors map[string]string

// Error склеивает сообщения в стабильном порядке полей.
func (e Errors) Error() string {
	fields := e.Fields()
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, e[field])
	}
	return strings.Join(parts, ", ")
}

// Fields возвращает отсортированный список полей с ошибками.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// AsMessages приводит ошибки к виду поле -> список сообщений, как в ответе upstream.
func (e Errors) AsMessages() map[string][]string {
	out := make(map[string][]string, len(e))
	for field, msg := range e {
		out[field] = []string{msg}
	}
	return out
}
